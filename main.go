package main

import "ninjapark-backend/cmd"

func main() {
	cmd.Execute()
}
