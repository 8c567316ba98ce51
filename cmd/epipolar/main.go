package main

import "github.com/MeKo-Tech/epipolar/cmd/epipolar/cmd"

func main() {
	cmd.Execute()
}
