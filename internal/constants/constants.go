package constants

const (
	Version        = `0.1.0`
	ConfigFile     = `cfg`
	ConfigFileType = `yaml`
	ConfigDir      = `/.cirrus/`

	DefaultEndpoint  = `ws://localhost:8000/rpc`
	DefaultNamespace = `cirrus`
	DefaultDatabase  = `notes`
	DefaultAccess    = `user`

	DefaultExportDir = `cirrus-exports`

	NotesTable = `note`
)
