package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/lifeorg/internal/timeparse"
	"github.com/fentz26/lifeorg/internal/view"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Manage weekly availability blocks",
	Long:  `Availability blocks repeat every week. Tasks are only placed into free time inside a block.`,
}

var blockAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a weekly availability block",
	RunE:  runBlockAdd,
}

var blockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List availability blocks",
	RunE:  runBlockList,
}

var blockRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove an availability block by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlockRemove,
}

var blockClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all availability blocks",
	RunE:  runBlockClear,
}

var (
	blockDay   int
	blockStart string
	blockEnd   string
)

func init() {
	blockCmd.AddCommand(blockAddCmd, blockListCmd, blockRemoveCmd, blockClearCmd)

	blockAddCmd.Flags().IntVar(&blockDay, "day", 0, "Day of week, 1 = Monday through 7 = Sunday (required)")
	blockAddCmd.Flags().StringVar(&blockStart, "start", "", `Start of day as "H:MM" (required)`)
	blockAddCmd.Flags().StringVar(&blockEnd, "end", "", `End of day as "H:MM" (required)`)
	blockAddCmd.MarkFlagRequired("day")
	blockAddCmd.MarkFlagRequired("start")
	blockAddCmd.MarkFlagRequired("end")
}

func runBlockAdd(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	if blockDay < 1 || blockDay > 7 {
		return fmt.Errorf("day must be between 1 (Monday) and 7 (Sunday), got %d", blockDay)
	}

	start, err := timeparse.ParseDuration(blockStart)
	if err != nil {
		return err
	}
	end, err := timeparse.ParseDuration(blockEnd)
	if err != nil {
		return err
	}
	if start >= 24*time.Hour || end > 24*time.Hour {
		return fmt.Errorf("block times must fall within one day")
	}

	dayOffset := time.Duration(blockDay-1) * 24 * time.Hour
	block, err := s.AddBlock(dayOffset+start, dayOffset+end)
	if err != nil {
		return err
	}
	fmt.Printf("Block %s added.\n", block.ID[:8])
	return nil
}

func runBlockList(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	blocks, err := s.ListBlocks()
	if err != nil {
		return err
	}
	fmt.Print(view.BlockList(blocks))
	return nil
}

func runBlockRemove(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	// Accept a prefix so users can paste the short id from `block list`.
	blocks, err := s.ListBlocks()
	if err != nil {
		return err
	}
	id := ""
	for _, block := range blocks {
		if len(args[0]) <= len(block.ID) && block.ID[:len(args[0])] == args[0] {
			if id != "" {
				return fmt.Errorf("id prefix %q is ambiguous", args[0])
			}
			id = block.ID
		}
	}
	if id == "" {
		return fmt.Errorf("no block matches %q", args[0])
	}

	if err := s.RemoveBlock(id); err != nil {
		return err
	}
	fmt.Printf("Block %s removed.\n", id[:8])
	return nil
}

func runBlockClear(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ClearBlocks(); err != nil {
		return err
	}
	fmt.Println("All blocks removed.")
	return nil
}
