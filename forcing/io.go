package forcing

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// SaveMsgpack writes the forcing to a msgpack cache file
func (frc *Forcing) SaveMsgpack(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" forcing.SaveMsgpack %v", err)
	}
	defer f.Close()
	if err := msgpack.NewEncoder(f).Encode(frc); err != nil {
		return fmt.Errorf(" forcing.SaveMsgpack %v", err)
	}
	return nil
}

// LoadMsgpack reads a forcing cache written by SaveMsgpack
func LoadMsgpack(fp string) (*Forcing, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var frc Forcing
	if err := msgpack.NewDecoder(f).Decode(&frc); err != nil {
		return nil, fmt.Errorf(" forcing.LoadMsgpack %v", err)
	}
	for i, t := range frc.T {
		frc.T[i] = t.UTC() // decoded in local time
	}
	if err := frc.check(); err != nil {
		return nil, err
	}
	return &frc, nil
}
