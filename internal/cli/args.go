package cli

import (
	"fmt"
)

// DefaultDBPath is the local database used when neither --db nor the
// db_location config key is set.
const DefaultDBPath = "sipp.sqlite"

// Args represents the top-level command structure
type Args struct {
	Remote  *string `arg:"-r,--remote,env:SIPP_REMOTE_URL" help:"remote server URL (e.g. http://localhost:3000)"`
	APIKey  *string `arg:"-k,--api-key,env:SIPP_API_KEY" help:"API key for authenticated operations"`
	DBPath  *string `arg:"--db,env:SIPP_DB" help:"local database file (default: sipp.sqlite)"`
	LogFile *string `arg:"--log-file,env:SIPP_LOG" help:"append debug logs to this file"`

	Serve  *ServeCmd  `arg:"subcommand:serve" help:"Serve snippets over HTTP from the local database"`
	Auth   *AuthCmd   `arg:"subcommand:auth" help:"Save the remote URL and API key"`
	Upload *UploadCmd `arg:"subcommand:upload" help:"Create a snippet and print its link"`
	Config *ConfigCmd `arg:"subcommand:config" help:"Manage configuration"`
}

// ServeCmd represents the 'sipp serve' command
type ServeCmd struct {
	Host string `arg:"--host,env:SIPP_HOST" default:"0.0.0.0" help:"address to listen on"`
	Port int    `arg:"-p,--port,env:PORT" default:"3000" help:"port to listen on"`
}

// AuthCmd represents the 'sipp auth' command
type AuthCmd struct{}

// UploadCmd represents the 'sipp upload' command
type UploadCmd struct {
	File      *string `arg:"positional" help:"file to upload (reads stdin when omitted)"`
	Name      *string `arg:"-n,--name" help:"snippet name (defaults to the file name)"`
	Clipboard bool    `arg:"-c,--clipboard" help:"read content from the clipboard"`
}

// ConfigCmd represents the 'sipp config' command
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Get a configuration value"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Set a configuration value"`
	List *ConfigListCmd `arg:"subcommand:list" help:"List all configuration values"`
}

// ConfigGetCmd represents the 'sipp config get' command
type ConfigGetCmd struct {
	Key string `arg:"positional,required" help:"remote-url, api-key, style or db-location"`
}

// ConfigSetCmd represents the 'sipp config set' command
type ConfigSetCmd struct {
	Key   string `arg:"positional,required" help:"remote-url, api-key, style or db-location"`
	Value string `arg:"positional,required" help:"new value"`
}

// ConfigListCmd represents the 'sipp config list' command
type ConfigListCmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "sipp - personal snippet manager with a terminal browser and a small web service"
}

// Version returns the program version
func (Args) Version() string {
	return "sipp 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  sipp                              # Browse snippets in the terminal
  sipp -r https://snippets.example  # Browse a remote server
  sipp serve --port 8080            # Serve the local database
  sipp upload main.go               # Upload a file and copy its link
  git diff | sipp upload -n fix.diff
  sipp upload -c                    # Upload the clipboard
  sipp auth                         # Save remote URL and API key
  sipp config set style dracula`
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	if args.Serve != nil {
		return args.Serve.Validate()
	}
	if args.Upload != nil {
		return args.Upload.Validate()
	}
	return nil
}

// Validate validates serve command arguments
func (s *ServeCmd) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// Validate validates upload command arguments
func (u *UploadCmd) Validate() error {
	if u.File != nil && u.Clipboard {
		return fmt.Errorf("cannot specify both file and clipboard input")
	}
	if u.Name != nil && *u.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}
