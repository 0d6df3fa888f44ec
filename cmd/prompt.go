package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightforge/insightforge/internal/memory"
	"github.com/insightforge/insightforge/internal/model"
	"github.com/insightforge/insightforge/internal/prompt"
)

var (
	promptRequestPath  string
	promptMemoryPath   string
	promptBasePath     string
	promptOutputPath   string
	promptUpdateMemory bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Build a memory-aware research prompt from a request file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("prompt"); err != nil {
			return err
		}
		if promptRequestPath == "" {
			return eris.New("prompt: provide --request")
		}

		memoryPath := promptMemoryPath
		if memoryPath == "" {
			memoryPath = cfg.Memory.Path
		}

		req, missing, err := prompt.LoadRequest(promptRequestPath)
		if err != nil {
			return err
		}

		mem, err := memory.Load(memoryPath)
		if err != nil {
			return err
		}

		base, err := os.ReadFile(promptBasePath)
		if err != nil {
			return eris.Wrapf(err, "prompt: read base prompt %s", promptBasePath)
		}

		text, err := prompt.Build(strings.TrimSpace(string(base)), *req, missing, mem)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(promptOutputPath), 0o755); err != nil {
			return eris.Wrapf(err, "prompt: create output dir for %s", promptOutputPath)
		}
		if err := os.WriteFile(promptOutputPath, []byte(text), 0o644); err != nil {
			return eris.Wrapf(err, "prompt: write %s", promptOutputPath)
		}
		fmt.Printf("Prompt written to %s\n", promptOutputPath)

		if promptUpdateMemory {
			brief := model.Brief{
				Scope:         req.Scope,
				KPIPriority:   req.KPIPriority,
				AnalysisTheme: req.AnalysisTheme,
			}
			updated := memory.Merge(mem, brief, time.Now())
			if err := memory.Save(memoryPath, updated); err != nil {
				return err
			}
			fmt.Printf("Memory updated at %s\n", memoryPath)
			zap.L().Info("domain memory updated", zap.String("path", memoryPath))
		}
		return nil
	},
}

func init() {
	promptCmd.Flags().StringVar(&promptRequestPath, "request", "", "path to a JSON or YAML prompt request")
	promptCmd.Flags().StringVar(&promptMemoryPath, "memory", "", "domain memory path (default from config)")
	promptCmd.Flags().StringVar(&promptBasePath, "base-prompt", "prompts/ecommerce_research_agent_prompt.md", "base agent prompt markdown")
	promptCmd.Flags().StringVar(&promptOutputPath, "output", "out/research_prompt.txt", "output prompt path")
	promptCmd.Flags().BoolVar(&promptUpdateMemory, "update-memory", false, "persist request preferences to domain memory")
	rootCmd.AddCommand(promptCmd)
}
