package hymod

const (
	nearzero = 1e-9 // daily water-balance tolerance [mm]

	dateFormat = "2006-01-02"
)
