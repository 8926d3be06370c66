/*
Package cmd implements the contract-search command line: serving the
retrieval operations over HTTP or MCP, preparing and loading the graph,
and querying it directly.
*/
package cmd

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/theapemachine/contract-search/pkg/config"
	"github.com/theapemachine/contract-search/pkg/logging"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
It is written to the home directory of the user on first run, so it can
be edited there.
*/
//go:embed cfg/*
var embedded embed.FS

var (
	projectName = "contract-search"
	version     = "0.1.0"
	cfgFile     string
	jsonOutput  bool
	cfg         *config.Config

	rootCmd = &cobra.Command{
		Use:           projectName,
		Version:       version,
		Short:         "Search and project legal agreements stored in Neo4j",
		Long:          longRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			if cfg, err = config.Load(viper.GetViper()); err != nil {
				return err
			}

			return logging.Configure(cfg.Log)
		},
	}
)

// Execute runs the root command and reports a failure on stderr.
func Execute() error {
	err := rootCmd.Execute()

	if err != nil {
		log.Error("command failed", "error", err)
	}

	logging.Close()

	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yml",
		"config file name in $HOME/."+projectName,
	)

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

/*
initConfig loads .env, writes the default config on first run and reads
it. Environment variables override any key.
*/
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to read .env", "error", err)
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if err := writeConfig(); err != nil {
		log.Warn("failed to write default config", "error", err)
	}

	home, _ := os.UserHomeDir()

	viper.SetConfigName(trimExt(cfgFile))
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(home, "."+projectName))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		if !errors.As(err, &notFound) {
			log.Fatal("failed to read config", "error", err)
		}

		log.Debug("no config file, using defaults and environment")
	}
}

// writeConfig copies the embedded default config to the user's home directory once.
func writeConfig() (err error) {
	var (
		home, _ = os.UserHomeDir()
		fh      fs.File
		buf     bytes.Buffer
	)

	configDir := filepath.Join(home, "."+projectName)

	if err = os.MkdirAll(configDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	fullPath := filepath.Join(configDir, cfgFile)

	if CheckFileExists(fullPath) {
		return nil
	}

	if fh, err = embedded.Open("cfg/config.yml"); err != nil {
		return fmt.Errorf("failed to open embedded config file: %w", err)
	}

	defer fh.Close()

	if _, err = io.Copy(&buf, fh); err != nil {
		return fmt.Errorf("failed to read embedded config file: %w", err)
	}

	if err = os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Info("wrote config file", "path", fullPath)

	return nil
}

func CheckFileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !errors.Is(err, os.ErrNotExist)
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

var longRoot = `
contract-search answers questions about legal agreements held in a Neo4j
knowledge graph: lookups by id, party, or clause type, semantic search over
clause excerpts, and aggregation questions translated to Cypher.
`
