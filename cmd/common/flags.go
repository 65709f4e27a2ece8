package common

import (
	"flag"
	"fmt"
	"io"
)

// CommonFlags contains flags that are shared across multiple commands
type CommonFlags struct {
	EnvFile    *string
	ConfigFile *string
	Version    *bool
}

// RegisterCommonFlags registers the shared flags on fs
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		EnvFile:    fs.String("env", "", "Environment file path (default .env, ignored if missing)"),
		ConfigFile: fs.String("config", "", "Optional YAML config file; environment variables take precedence"),
		Version:    fs.Bool("version", false, "Show version information"),
	}
}

// UsageExample represents a usage example
type UsageExample struct {
	Command     string
	Description string
}

// UsageFormatter prints the -help text for a command
type UsageFormatter struct {
	AppName        string
	AppDescription string
	Examples       []UsageExample
}

// NewUsageFormatter creates a new usage formatter
func NewUsageFormatter(appName, description string) *UsageFormatter {
	return &UsageFormatter{
		AppName:        appName,
		AppDescription: description,
		Examples:       make([]UsageExample, 0),
	}
}

// AddExample adds a usage example
func (u *UsageFormatter) AddExample(command, description string) *UsageFormatter {
	u.Examples = append(u.Examples, UsageExample{
		Command:     command,
		Description: description,
	})
	return u
}

// Install makes fs print this usage on -help or a parse error
func (u *UsageFormatter) Install(fs *flag.FlagSet) {
	fs.Usage = func() { u.PrintUsage(fs.Output(), fs) }
}

// PrintUsage prints formatted usage information
func (u *UsageFormatter) PrintUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "%s - %s\n\n", u.AppName, u.AppDescription)

	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "  %s [OPTIONS]\n\n", fs.Name())

	if len(u.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range u.Examples {
			fmt.Fprintf(w, "  # %s\n", example.Description)
			fmt.Fprintf(w, "  %s\n\n", example.Command)
		}
	}

	fmt.Fprintf(w, "OPTIONS:\n")
	fs.PrintDefaults()
}
