package main

import "go-gallery/internal/app"

func main() {
	app.Run()
}
