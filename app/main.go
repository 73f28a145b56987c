package main

import "github.com/dj311/rc4-key-recovery-attacks/app/cmd"

func main() {
	cmd.Execute()
}
