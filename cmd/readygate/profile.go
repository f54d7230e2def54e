package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Profile holds the server a CLI user talks to by default.
type Profile struct {
	URL      string `toml:"url"`
	GRPCAddr string `toml:"grpc_addr,omitempty"`
	Token    string `toml:"token,omitempty"`
	NATSURL  string `toml:"nats_url,omitempty"`
}

// profilePath returns ~/.local/state/readygate/profile.toml, or the path in
// READYGATE_PROFILE when set.
func profilePath() (string, error) {
	if p := os.Getenv("READYGATE_PROFILE"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "readygate", "profile.toml"), nil
}

func loadProfile(path string) (Profile, error) {
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}
	return p, nil
}

func saveProfile(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}

var (
	profileOnce   sync.Once
	cachedProfile Profile
)

// activeProfile loads the profile once per process. Errors leave it empty.
func activeProfile() Profile {
	profileOnce.Do(func() {
		path, err := profilePath()
		if err != nil {
			return
		}
		cachedProfile, _ = loadProfile(path)
	})
	return cachedProfile
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Manage the default server profile",
	GroupID: "system",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the connection flags given on the command line",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := profilePath()
		if err != nil {
			return err
		}
		p, err := loadProfile(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("http-url") {
			p.URL = httpURL
		}
		if cmd.Flags().Changed("server") {
			p.GRPCAddr = serverAddr
		}
		if cmd.Flags().Changed("token") {
			p.Token = authToken
		}
		if cmd.Flags().Changed("nats-url") {
			p.NATSURL, _ = cmd.Flags().GetString("nats-url")
		}
		if err := saveProfile(path, p); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved profile to %s\n", path)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := profilePath()
		if err != nil {
			return err
		}
		p, err := loadProfile(path)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p.redacted())
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(p.redacted())
	},
}

// redacted hides the token when printing.
func (p Profile) redacted() Profile {
	if p.Token != "" {
		p.Token = "********"
	}
	return p
}

func init() {
	profileSetCmd.Flags().String("nats-url", "", "NATS URL used by emit")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)
}
