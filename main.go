// @title Language Poll API
// @version 1.0
// @description Minimal polling service: vote for a favorite language, read the tally, clear the log behind a shared admin key
package main

import (
	_ "github.com/langpoll/langpoll/docs"

	"github.com/spf13/viper"

	"github.com/langpoll/langpoll/api"
	"github.com/langpoll/langpoll/logging"
)

func main() {
	logging.BootstrapLogger()

	// Load env
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logging.Log.Errorf("Failed to read config file: %v", err)
		panic("Failed to read config file: " + err.Error())
	}

	// Read config
	config := api.ReadConfig()

	// Start the service
	service := api.NewServer(config)
	service.Start()
}
