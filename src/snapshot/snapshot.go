//Package snapshot stores the whole field of a universe in a yaml file
package snapshot

import (
	"fmt"
	"path"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	billy "gopkg.in/src-d/go-billy.v4"
	"gopkg.in/yaml.v3"

	"exlife/src/grid"
)

//Save writes g to the file name.
//The document is written to a temporary file next to name first and then renamed,
//so a reader never sees a partially written snapshot.
func Save(fs billy.Filesystem, name string, g *grid.Grid[uint8]) (err error) {
	dir := path.Dir(name)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	temp, err := fs.TempFile(dir, path.Base(name))
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(temp)
	err = encoder.Encode(g)
	err = multierr.Append(err, encoder.Close())
	err = multierr.Append(err, temp.Close())
	if err != nil {
		return multierr.Append(fmt.Errorf("snapshot: save %s: %w", name, err), fs.Remove(temp.Name()))
	}

	if err := fs.Rename(temp.Name(), name); err != nil {
		return multierr.Append(err, fs.Remove(temp.Name()))
	}
	logrus.WithFields(logrus.Fields{"file": name, "chunks": g.Len()}).Debug("snapshot saved")
	return nil
}

//Load reads the grid saved by Save
func Load(fs billy.Filesystem, name string) (*grid.Grid[uint8], error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var g grid.Grid[uint8]
	if err := yaml.NewDecoder(file).Decode(&g); err != nil {
		return nil, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	logrus.WithFields(logrus.Fields{"file": name, "chunks": g.Len()}).Debug("snapshot loaded")
	return &g, nil
}
