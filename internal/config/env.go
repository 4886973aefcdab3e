package config

import (
	"os"
	"strconv"
	"strings"
)

// SFTP holds the delivery target, read from the environment only.
type SFTP struct {
	Host                  string
	Port                  int
	User                  string
	Pass                  string
	Dir                   string
	KnownHosts            string
	InsecureIgnoreHostKey bool
}

// Enabled reports whether a delivery target is configured.
func (s SFTP) Enabled() bool { return s.Host != "" }

// LoadSFTP reads SFTP_* variables.
func LoadSFTP() SFTP {
	return SFTP{
		Host:                  os.Getenv("SFTP_HOST"),
		Port:                  getenvInt("SFTP_PORT", 22),
		User:                  os.Getenv("SFTP_USER"),
		Pass:                  os.Getenv("SFTP_PASS"),
		Dir:                   getenv("SFTP_DIR", "/inbound"),
		KnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
		InsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", false),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}

func getenvBool(k string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(k)))
	if err != nil {
		return def
	}
	return v
}
