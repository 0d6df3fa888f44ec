package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightforge/insightforge/internal/memory"
)

var memoryPathFlag string

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and update the domain memory document",
}

var memoryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current domain memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("memory"); err != nil {
			return err
		}

		mem, err := memory.Load(memoryPath())
		if err != nil {
			return err
		}
		encoded, err := json.MarshalIndent(mem, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

var memoryMergeCmd = &cobra.Command{
	Use:   "merge <brief>",
	Short: "Merge a brief's scope and KPI facts into domain memory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("memory"); err != nil {
			return err
		}

		brief, err := loadBrief(args[0])
		if err != nil {
			return err
		}
		mem, err := memory.Load(memoryPath())
		if err != nil {
			return err
		}

		updated := memory.Merge(mem, *brief, time.Now())
		if err := memory.Save(memoryPath(), updated); err != nil {
			return err
		}
		fmt.Printf("Domain memory updated: %s\n", memoryPath())
		return nil
	},
}

func memoryPath() string {
	if memoryPathFlag != "" {
		return memoryPathFlag
	}
	return cfg.Memory.Path
}

func init() {
	memoryCmd.PersistentFlags().StringVar(&memoryPathFlag, "memory", "", "domain memory path (default from config)")
	memoryCmd.AddCommand(memoryShowCmd)
	memoryCmd.AddCommand(memoryMergeCmd)
	rootCmd.AddCommand(memoryCmd)
}
