package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "efesto",
	Short: "Efesto heating device control CLI",
	Long:  `A command line interface for controlling pellet heating devices connected to the Efesto web service.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
