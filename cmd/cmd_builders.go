// cmd_builders.go - Command-Builder Funktionen
// Hauptfunktionen: newRunCmd, newServeCmd, newBenchCmd, newChatsCmd
package cmd

import (
	"github.com/spf13/cobra"
)

// addModelFlags - Flags die beim Laden des Modells ausgewertet werden
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Path to the model file")
	cmd.Flags().String("config", "", "Path to the YAML config file")
	cmd.Flags().Int("ctx-size", 0, "Context size in tokens")
	cmd.Flags().Int("threads", 0, "Number of worker threads for generation")
	cmd.Flags().Int("batch-threads", 0, "Number of worker threads for prompt processing")
	cmd.Flags().Bool("no-mmap", false, "Do not memory-map the model file")
	cmd.Flags().Bool("mlock", false, "Lock the model file in memory")
}

// addSamplingFlags - Flags fuer Sampling und Chat-Template
func addSamplingFlags(cmd *cobra.Command) {
	cmd.Flags().Float32("temperature", 0, "Sampling temperature")
	cmd.Flags().Float32("min-p", 0, "Min-p sampling threshold")
	cmd.Flags().Int("seed", 0, "Sampling seed (-1 = random)")
	cmd.Flags().String("template", "", "Chat template text or built-in template name")
	cmd.Flags().String("system", "", "System prompt")
}

// newRunCmd - Erstellt den run Command
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [PROMPT]",
		Short: "Chat with a model",
		RunE:  RunHandler,
	}

	addModelFlags(runCmd)
	addSamplingFlags(runCmd)
	runCmd.Flags().String("chat", "", "Resume a saved chat by id")
	runCmd.Flags().Bool("no-save", false, "Do not save the conversation")
	runCmd.Flags().Bool("verbose", false, "Show timings for response")

	return runCmd
}

// newServeCmd - Erstellt den serve Command
func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Serve a model over an OpenAI compatible API",
		Args:    cobra.ExactArgs(0),
		RunE:    ServeHandler,
	}

	addModelFlags(serveCmd)
	addSamplingFlags(serveCmd)
	serveCmd.Flags().Bool("no-save", false, "Do not save chats requested with the chat header")

	return serveCmd
}

// newBenchCmd - Erstellt den bench Command
func newBenchCmd() *cobra.Command {
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure prompt processing and generation speed",
		Args:  cobra.ExactArgs(0),
		RunE:  BenchHandler,
	}

	addModelFlags(benchCmd)
	benchCmd.Flags().Int("pp", 512, "Number of prompt tokens")
	benchCmd.Flags().Int("tg", 128, "Number of generated tokens")
	benchCmd.Flags().Int("pl", 1, "Number of parallel sequences")
	benchCmd.Flags().Int("nr", 3, "Number of repetitions")
	benchCmd.Flags().Bool("json", false, "Print the report as JSON")

	return benchCmd
}

// newChatsCmd - Erstellt den chats Command mit list, show und delete
func newChatsCmd() *cobra.Command {
	chatsCmd := &cobra.Command{
		Use:   "chats",
		Short: "Manage saved chats",
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved chats",
		Args:    cobra.ExactArgs(0),
		RunE:    ChatsListHandler,
	}

	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the messages of a chat",
		Args:  cobra.ExactArgs(1),
		RunE:  ChatsShowHandler,
	}

	deleteCmd := &cobra.Command{
		Use:     "rm ID [ID...]",
		Aliases: []string{"delete"},
		Short:   "Delete chats",
		Args:    cobra.MinimumNArgs(1),
		RunE:    ChatsDeleteHandler,
	}

	chatsCmd.AddCommand(listCmd, showCmd, deleteCmd)
	return chatsCmd
}
