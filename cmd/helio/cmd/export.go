package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/HelioTeam/helio-go-node/core/state"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	db "github.com/tendermint/tm-db"
)

var ExportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export the staking state at a given height as a genesis document",
	RunE:  export,
}

func init() {
	ExportCommand.Flags().Uint64("height", 0, "height of the state to export")
	ExportCommand.Flags().Bool("indent", false, "indent the JSON output")
}

func export(cmd *cobra.Command, args []string) error {
	height, err := cmd.Flags().GetUint64("height")
	if err != nil {
		log.Panicf("Cannot parse height: %s", err)
	}

	indent, err := cmd.Flags().GetBool("indent")
	if err != nil {
		log.Panicf("Cannot parse indent: %s", err)
	}

	stateDB, err := db.NewDB("state", db.BackendType(cfg.DBBackend), cfg.DBDir())
	if err != nil {
		return errors.Wrap(err, "cannot open state db")
	}
	defer stateDB.Close()

	checkState, err := state.NewCheckStateAtHeight(height, stateDB)
	if err != nil {
		return errors.Wrapf(err, "cannot load state at height %d", height)
	}

	appState := checkState.Export()
	if err := appState.Verify(); err != nil {
		return errors.Wrap(err, "exported state is invalid")
	}

	var data []byte
	if indent {
		data, err = json.MarshalIndent(appState, "", "	")
	} else {
		data, err = json.Marshal(appState)
	}
	if err != nil {
		return err
	}

	fmt.Println(string(data))

	return nil
}
