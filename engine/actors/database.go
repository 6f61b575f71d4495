package actors

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"daoshares/engine/library"
)

// Open returns the flat file for a mind's db, or false if it has never been written.
func Open(mind, db string) (*os.File, bool) {
	if err := os.MkdirAll(directory(mind), 0777); err != nil {
		library.LogCLI(err.Error(), 0)
	}
	_, err := os.Stat(directory(mind) + db + ".dat")
	if os.IsNotExist(err) {
		return nil, false
	}
	file, err := os.Open(directory(mind) + db + ".dat")
	if err != nil {
		library.LogCLI(err.Error(), 0)
		return nil, false
	}
	return file, true
}

// Write replaces the flat file for a mind's db with b.
func Write(mind, db string, b []byte) error {
	if err := os.MkdirAll(directory(mind), 0777); err != nil {
		return fmt.Errorf("could not create directory for %s: %w", mind, err)
	}
	tmp := directory(mind) + db + ".dat.tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", tmp, err)
	}
	if _, err = io.Copy(f, bytes.NewReader(b)); err != nil {
		f.Close()
		return fmt.Errorf("could not write %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, directory(mind)+db+".dat")
}

func directory(mind string) string {
	dir := MakeOrGetConfig().GetString("rootDir")
	dir = dir + MakeOrGetConfig().GetString("flatFileDir")
	dir = dir + mind + "/"
	return dir
}
