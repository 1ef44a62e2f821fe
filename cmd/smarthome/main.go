// smarthome builds textual reports of a house from configured device info
// providers.
//
// Usage:
//
//	smarthome report                  # every configured provider
//	smarthome report owning           # one provider
//	smarthome rooms                   # list rooms and their devices
//	smarthome serve                   # HTTP endpoint + periodic publishing
//	smarthome demo                    # built-in two-room house
package main

var version = "dev"

func main() {
	Execute(version)
}
