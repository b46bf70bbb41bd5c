// Command ailib inspects provider configuration and sends smoke-test chats.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
