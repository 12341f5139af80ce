// Command stationctl runs and administers the station kiosk session client.
//
//	@title			Station Client API
//	@version		1.0
//	@description	Local API of the station kiosk session client.
//	@host			127.0.0.1:8787
//	@BasePath		/
package main

import "github.com/louagetn/station-client/cmd/stationctl/cmd"

func main() {
	cmd.Execute()
}
