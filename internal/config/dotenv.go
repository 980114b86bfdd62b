package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"intra42/pkg/logging"
)

// DefaultEnvFile is read for environment overrides before the config file.
const DefaultEnvFile = ".env"

// LoadDotEnv exports the variables of a dotenv file. Variables already set in
// the process environment win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return newConfigurationError(path, ErrorTypeParse, err.Error(), err,
			"Use KEY=value lines, e.g. INTRA42_CLIENT_ID=u-s4t2ud-...")
	}
	logging.Debug("ConfigLoader", "Loaded environment from %s", path)
	return nil
}
