package instance

import "github.com/fusionwear/storefront/pkg/env"

// GetID returns the process instance identifier used in startup logs. Heroku
// sets DYNO; containers usually set HOSTNAME.
func GetID() string {
	return env.First("local", "DYNO", "HOSTNAME")
}
