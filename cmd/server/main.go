package main

import (
	"os"

	_ "github.com/kidwise/api/docs" // Swagger docs
)

// @title KidWise API
// @version 0.1.0
// @description Parenting assistant API: age-aware answers, routines and scripts with a safety review on every answer.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
