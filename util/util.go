package util

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IsDir returns true if the specified directory is valid
func IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// FileExists checks to see if the specified file (or directory) exists
func FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	fileExists := err == nil
	return fileExists
}

// GetConfigFromDataDir Given the data directory, configuration filename and a list of types, see if
// a configuration file that matches was located there.  If no configuration file was there then an
// empty string is returned.  If more than one filetype was matched, an error is returned.
func GetConfigFromDataDir(dataDirectory string, configFilename string, configFileTypes []string) (string, error) {
	count := 0
	fullPath := ""
	var err error

	for _, configFileType := range configFileTypes {
		autoloadParamConfigPath := filepath.Join(dataDirectory, configFilename+"."+configFileType)
		if FileExists(autoloadParamConfigPath) {
			count++
			fullPath = autoloadParamConfigPath
		}
	}

	if count > 1 {
		return "", fmt.Errorf("config filename (%s) in data directory (%s) matched more than one filetype: %v",
			configFilename, dataDirectory, configFileTypes)
	}

	// if count == 0 then the fullpath will be set to "" and error will be nil
	// if count == 1 then it fullpath will be correct
	return fullPath, err
}

// WriteFileAtomic writes data next to filename and renames it into place, so
// readers never observe a half written file.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tempFilename := fmt.Sprintf("%s.temp", filename)
	if err := os.WriteFile(tempFilename, data, perm); err != nil {
		return fmt.Errorf("WriteFileAtomic(): failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFilename, filename); err != nil {
		os.Remove(tempFilename)
		return fmt.Errorf("WriteFileAtomic(): failed to replace %s: %w", filename, err)
	}
	return nil
}

// EncodeToFile is used to encode an object to a file. If the file ends in .gz it will be gzipped.
// Errors from flushing the gzip stream or closing the file are returned.
func EncodeToFile(filename string, v interface{}, pretty bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("EncodeToFile(): failed to create %s: %w", filename, err)
	}
	return encodeAndClose(file, filename, v, pretty)
}

// encodeAndClose writes v to w, gzipped when name ends in .gz, and closes w.
func encodeAndClose(w io.WriteCloser, name string, v interface{}, pretty bool) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("EncodeToFile(): failed to close %s: %w", name, cerr)
		}
	}()

	var writer io.Writer = w
	var gz *gzip.Writer
	if strings.HasSuffix(name, ".gz") {
		gz = gzip.NewWriter(w)
		gz.Name = name
		writer = gz
	}

	if err := encodeJSON(writer, v, pretty); err != nil {
		return fmt.Errorf("EncodeToFile(): failed to encode %s: %w", name, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("EncodeToFile(): failed to finish gzip stream %s: %w", name, err)
		}
	}
	return nil
}

func encodeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// DecodeFromFile is used to decode a file to an object.
func DecodeFromFile(filename string, v interface{}) error {
	// Streaming into the decoder was slow.
	fileBytes, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("DecodeFromFile(): failed to read %s: %w", filename, err)
	}

	var reader io.Reader = bytes.NewReader(fileBytes)

	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return fmt.Errorf("DecodeFromFile(): failed to make gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}
	dec := json.NewDecoder(reader)
	dec.UseNumber()
	return dec.Decode(v)
}
