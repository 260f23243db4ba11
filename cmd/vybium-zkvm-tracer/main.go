package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/events"
	"github.com/vybium/vybium-zkvm/internal/vybium-zkvm/utils"
	"github.com/vybium/vybium-zkvm/pkg/vybium-zkvm"
)

const usage = `usage: vybium-zkvm-tracer <command> [flags]

commands:
  table   generate, verify and commit to the preprocessed byte table
  run     execute a JSON syscall script read from stdin and write the
          CBOR-encoded shard record
`

// Script is the JSON input of the run command
type Script struct {
	Memory      []MemoryInit   `json:"memory"`
	Calls       []SyscallCall  `json:"calls"`
	ByteLookups []ByteLookupOp `json:"byte_lookups,omitempty"`
}

// MemoryInit places words at an address before execution
type MemoryInit struct {
	Addr  uint32   `json:"addr"`
	Words []uint32 `json:"words"`
}

// SyscallCall is one syscall of the script, by name
type SyscallCall struct {
	Syscall string `json:"syscall"`
	Arg1    uint32 `json:"arg1"`
	Arg2    uint32 `json:"arg2"`
}

// ByteLookupOp is one byte table query of the script
type ByteLookupOp struct {
	Op string `json:"op"`
	B  uint8  `json:"b"`
	C  uint8  `json:"c"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	flags := pflag.NewFlagSet(command, pflag.ExitOnError)
	configFile := flags.String("config", "", "configuration file (yaml, json or toml)")
	output := flags.StringP("output", "o", "", "write the record to this file instead of stdout")
	flags.Uint32("byte-lookup-channels", utils.NumByteLookupChannels, "size of the byte lookup channel ring")
	flags.Int("table-workers", utils.DefaultConfig().TableWorkers, "goroutines used to build the byte table")
	flags.Uint32("shard", utils.DefaultConfig().Shard, "shard tag stamped on every record")
	flags.String("log-level", utils.DefaultConfig().LogLevel, "log level")
	if err := flags.Parse(os.Args[2:]); err != nil {
		fatal(fmt.Sprintf("Failed to parse flags: %v", err))
	}

	cfg, err := loadConfig(flags, *configFile)
	if err != nil {
		fatal(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	log := utils.NewLogger(cfg, os.Stderr)

	switch command {
	case "table":
		err = runTable(cfg, log)
	case "run":
		err = runScript(cfg, log, os.Stdin, *output)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fatal(err.Error())
	}
}

// loadConfig merges defaults, the optional config file, the environment
// and explicitly set flags, in increasing priority
func loadConfig(flags *pflag.FlagSet, file string) (*utils.Config, error) {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	for flagName, key := range map[string]string{
		"byte-lookup-channels": "byte_lookup_channels",
		"table-workers":        "table_workers",
		"shard":                "shard",
		"log-level":            "log_level",
	} {
		f := flags.Lookup(flagName)
		if f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	return utils.LoadConfig(v)
}

func runTable(cfg *utils.Config, log *logrus.Logger) error {
	log.WithField("workers", cfg.TableWorkers).Info("generating byte table")
	table, err := vybiumzkvm.GenerateByteTable(cfg)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"rows":    table.Height(),
		"columns": table.Width,
	}).Info("byte table verified, committing")
	root, err := vybiumzkvm.CommitByteTable(table)
	if err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(root))
	return nil
}

func runScript(cfg *utils.Config, log *logrus.Logger, in io.Reader, output string) error {
	var script Script
	if err := json.NewDecoder(in).Decode(&script); err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}

	exec, err := vybiumzkvm.NewExecutor(cfg, log)
	if err != nil {
		return err
	}

	for _, m := range script.Memory {
		if err := exec.LoadMemory(m.Addr, m.Words); err != nil {
			return err
		}
	}

	for _, l := range script.ByteLookups {
		op, err := parseByteOpcode(l.Op)
		if err != nil {
			return err
		}
		exec.LookupByte(op, l.B, l.C)
	}

	for i, call := range script.Calls {
		code, err := vybiumzkvm.ParseSyscallCode(call.Syscall)
		if err != nil {
			return fmt.Errorf("call %d: %w", i, err)
		}
		if _, _, err := exec.Syscall(code, call.Arg1, call.Arg2); err != nil {
			return fmt.Errorf("call %d: %w", i, err)
		}
		// each call stands for one ecall instruction
		exec.Step(vybiumzkvm.CyclesPerInstruction)
		exec.AdvanceChannel()
	}

	record, err := exec.Finalize()
	if err != nil {
		return err
	}

	mt, err := vybiumzkvm.BuildMemoryTable(record)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"rows":   mt.GetHeight(),
		"padded": mt.GetPaddedHeight(),
	}).Info("memory accesses balance")

	stats := record.Stats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if stats[name] > 0 {
			log.WithField("count", stats[name]).Info(name)
		}
	}

	digest, err := record.Digest()
	if err != nil {
		return &vybiumzkvm.VMError{Code: vybiumzkvm.ErrSerialization, Message: "failed to digest record", Cause: err}
	}
	log.WithFields(logrus.Fields{
		"cycles": exec.Clock(),
		"digest": hex.EncodeToString(digest[:]),
	}).Info("execution complete")

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		out = f
	}
	if err := record.Encode(out); err != nil {
		return &vybiumzkvm.VMError{Code: vybiumzkvm.ErrSerialization, Message: "failed to encode record", Cause: err}
	}
	return nil
}

func parseByteOpcode(name string) (events.ByteOpcode, error) {
	for _, op := range events.AllByteOpcodes() {
		if op.String() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown byte opcode %q", name)
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "vybium-zkvm-tracer:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
