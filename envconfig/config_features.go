// config_features.go - Session- und Sampling-Konfiguration
//
// Dieses Modul enthaelt:
// - Modell- und Kontext-Einstellungen
// - Sampling-Parameter
// - Feature-Flags (StoreChats, NoHistory, ...)
package envconfig

// =============================================================================
// Modell und Kontext
// =============================================================================

var (
	// Model ist der Pfad zum Modell (fuer bytegram: Text-Korpus)
	Model = String("SMOLCHAT_MODEL")

	// ContextLength setzt die Standard-Context-Laenge in Token-Zellen
	ContextLength = Uint("SMOLCHAT_CONTEXT_LENGTH", 2048)

	// NumThread setzt die Anzahl der Worker-Threads (0 = automatisch)
	NumThread = Uint("SMOLCHAT_NUM_THREAD", 0)

	// ChatTemplate ueberschreibt das Chat-Template des Modells
	ChatTemplate = String("SMOLCHAT_CHAT_TEMPLATE")

	// NoMMap deaktiviert Memory-Mapping der Modelldatei
	NoMMap = Bool("SMOLCHAT_NO_MMAP")

	// UseMLock sperrt die Modelldatei im RAM
	UseMLock = Bool("SMOLCHAT_MLOCK")
)

// =============================================================================
// Sampling
// =============================================================================

var (
	// Temperature ist die Sampling-Temperatur
	Temperature = Float("SMOLCHAT_TEMPERATURE", 0.8)

	// MinP ist die Min-P Schwelle des Samplers
	MinP = Float("SMOLCHAT_MIN_P", 0.1)
)

// =============================================================================
// Feature-Flags
// =============================================================================

var (
	// NoHistory deaktiviert die Eingabe-History im interaktiven Modus
	NoHistory = Bool("SMOLCHAT_NOHISTORY")
)

// StoreChats behaelt die Chat-History ueber Turns hinweg
// Konfigurierbar via SMOLCHAT_STORE_CHATS
// Default: true
func StoreChats() bool {
	return BoolWithDefault("SMOLCHAT_STORE_CHATS")(true)
}
