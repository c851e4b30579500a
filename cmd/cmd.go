// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
// Commands: run, serve (start), bench, chats
package cmd

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/smolchat/smolchat/envconfig"
	"github.com/smolchat/smolchat/version"
)

// appendEnvDocs - Haengt die Beschreibung der Umgebungsvariablen names an die Hilfe an
func appendEnvDocs(cmd *cobra.Command, names ...string) {
	if len(names) == 0 {
		return
	}

	vars := envconfig.AsMap()

	var sb strings.Builder
	sb.WriteString("\nEnvironment Variables:\n")
	for _, name := range names {
		e := vars[name]
		fmt.Fprintf(&sb, "      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + sb.String())
}

// modelEnvs gelten fuer alle Commands die ein Modell laden
var modelEnvs = []string{
	"SMOLCHAT_DEBUG",
	"SMOLCHAT_MODEL",
	"SMOLCHAT_CONFIG",
	"SMOLCHAT_CONTEXT_LENGTH",
	"SMOLCHAT_NUM_THREAD",
	"SMOLCHAT_NO_MMAP",
	"SMOLCHAT_MLOCK",
}

var samplingEnvs = []string{
	"SMOLCHAT_TEMPERATURE",
	"SMOLCHAT_MIN_P",
	"SMOLCHAT_CHAT_TEMPLATE",
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "smolchat",
		Short:         "Chat with a small local language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		Run: func(cmd *cobra.Command, args []string) {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Printf("smolchat version is %s\n", version.Version)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	runCmd := newRunCmd()
	appendEnvDocs(runCmd, slices.Concat(modelEnvs, samplingEnvs, []string{"SMOLCHAT_STORE_CHATS", "SMOLCHAT_DB", "SMOLCHAT_NOHISTORY"})...)

	serveCmd := newServeCmd()
	appendEnvDocs(serveCmd, slices.Concat(modelEnvs, samplingEnvs, []string{"SMOLCHAT_HOST", "SMOLCHAT_ORIGINS", "SMOLCHAT_DB"})...)

	benchCmd := newBenchCmd()
	appendEnvDocs(benchCmd, modelEnvs...)

	chatsCmd := newChatsCmd()
	appendEnvDocs(chatsCmd, "SMOLCHAT_HOME", "SMOLCHAT_DB")

	rootCmd.AddCommand(
		runCmd,
		serveCmd,
		benchCmd,
		chatsCmd,
	)

	return rootCmd
}
