package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scancart/scancart/internal/database"
	"github.com/scancart/scancart/internal/storage"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all lists and settings and reseed the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			fmt.Printf("This deletes every list and item in %s. Type 'yes' to continue: ", cfg.DBPath)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Println("aborted")
				return nil
			}
		}

		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := storage.New(db).WipeAll(); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Println("storage reset to defaults")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "skip the confirmation prompt")
}
