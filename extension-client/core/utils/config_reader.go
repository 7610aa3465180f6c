package utils

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// ReadConfig loads the file given by --config into o. Without the flag o is left untouched.
func ReadConfig(cliCtx *cli.Context, o interface{}) error {
	configFilePath := cliCtx.GlobalString(ConfigFileFlag.Name)
	if configFilePath == "" {
		return nil
	}

	return ReadYamlConfig(configFilePath, o)
}

// ExpandPath resolves a leading ~ and $VARS in path.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir failed")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	return filepath.Clean(path), nil
}

// ReadYamlConfig loads the yaml file at path into o. Keys o does not know are an error, so a
// typo does not silently fall back to a default.
func ReadYamlConfig(path string, o interface{}) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return errors.Errorf("config path %s does not exist", resolved)
	}
	if err != nil {
		return errors.Wrapf(err, "read config %s failed", resolved)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "unable to parse config %s", resolved)
	}

	return nil
}
