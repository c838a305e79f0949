package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/source"
)

// DefaultPathsFile is the properties file consulted for path overrides.
const DefaultPathsFile = "config-paths.properties"

// EnvPrefix prefixes every environment override, e.g. PUBCFG_PLUGIN_CONFIG_PATH.
const EnvPrefix = "PUBCFG"

// PathKey returns the properties key overriding the file path of kind.
func PathKey(kind model.Kind) string {
	return string(kind) + ".config.path"
}

// DefaultFileName returns the default relative file name of kind.
func DefaultFileName(kind model.Kind) string {
	return string(kind) + "-config.yaml"
}

// PathResolver maps a domain to its configuration file path. Overrides come
// from a properties file and from PUBCFG_* environment variables; a blank
// override falls back to the default file name.
type PathResolver struct {
	dir string
	v   *viper.Viper
}

// NewPathResolver reads overrides from propsFile, if it exists. Relative
// paths are resolved against dir. An empty propsFile means
// dir/config-paths.properties.
func NewPathResolver(dir, propsFile string) (*PathResolver, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, k := range model.Kinds {
		v.SetDefault(PathKey(k), "")
	}

	explicit := propsFile != ""
	if !explicit {
		propsFile = filepath.Join(dir, DefaultPathsFile)
	}

	v.SetConfigFile(propsFile)
	v.SetConfigType("properties")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || (!errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("reading path overrides %s: %w", propsFile, err)
		}
	}

	return &PathResolver{dir: dir, v: v}, nil
}

// Resolve returns the path for kind. Remote sources are returned unchanged.
func (p *PathResolver) Resolve(kind model.Kind) string {
	path := strings.TrimSpace(p.v.GetString(PathKey(kind)))
	if path == "" {
		path = DefaultFileName(kind)
	}

	if source.IsRemote(path) || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(p.dir, path)
}
