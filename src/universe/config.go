package universe

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/yaml.v3"
)

//ErrBadTemplate is returned for a template without a name or with a coordinate that is not an [x, y] pair
var ErrBadTemplate = errors.New("universe: malformed template")

//LoadTemplates reads the list of seeding templates from the yaml file p
//unknown fields are rejected
func LoadTemplates(fs billy.Filesystem, p string) ([]Template, error) {
	var tmpls []Template
	if err := decodeFile(fs, p, &tmpls); err != nil {
		return nil, err
	}
	for i, t := range tmpls {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: template #%d has no name", ErrBadTemplate, i)
		}
		for _, c := range t.Coordinates {
			if len(c) != 2 {
				return nil, fmt.Errorf("%w: %s: coordinate %v", ErrBadTemplate, t.Name, c)
			}
		}
	}
	logrus.WithFields(logrus.Fields{"file": p, "templates": len(tmpls)}).Debug("templates loaded")
	return tmpls, nil
}

//LoadOptions reads the universe options from the yaml file p
//the fields absent in the file keep the default values, unknown fields are rejected
func LoadOptions(fs billy.Filesystem, p string) (Options, error) {
	o := DefaultUniverseOptions
	if err := decodeFile(fs, p, &o); err != nil {
		return DefaultUniverseOptions, err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return DefaultUniverseOptions, fmt.Errorf("universe: %s: bad dimension %v x %v", p, o.Width, o.Height)
	}
	return o, nil
}

func decodeFile(fs billy.Filesystem, p string, out interface{}) error {
	f, err := fs.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("universe: parse %s: %w", p, err)
	}
	return nil
}
