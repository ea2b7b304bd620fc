package runner

import "os"

// Process level facts resolved once at startup.
var (
	Hostname string
	Pwd      string
)

func init() {
	var err error
	Hostname, err = os.Hostname()
	if err != nil {
		Hostname = "unknown"
	}
	Pwd, _ = os.Getwd()
}
