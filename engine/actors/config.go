package actors

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"daoshares/engine/library"
)

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", homeDir+"/daoshares/")
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("eventDb", "events.db")
	config.SetDefault("logLevel", 4)
	config.SetDefault("logDeployments", true)
	// constructor arguments for the DAOTester deployment
	config.SetDefault("totalSupply", uint64(1000))
	config.SetDefault("deployerShares", uint64(100))
	config.SetDefault("deploymentSalt", "DAOTester")
	config.SetDefault("doNotPublish", true)
	config.SetDefault("relaysMust", []string{"wss://nostr.688.org"})
	library.SetLogLevel(config.GetInt("logLevel"))
	// Create our working directory and config file if not exist
	initRootDir(config)
	touch(config.GetString("rootDir") + "config.yaml")
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

func touch(name string) {
	if _, err := os.Stat(name); os.IsNotExist(err) {
		f, err := os.Create(name)
		if err != nil {
			library.LogCLI(err, 1)
			return
		}
		f.Close()
	}
}

// EventDbPath is where the bolt backed event log lives.
func EventDbPath() string {
	return filepath.Join(MakeOrGetConfig().GetString("rootDir"), MakeOrGetConfig().GetString("eventDb"))
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	if conf == nil {
		conf = viper.New()
	}
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
