package main

import (
	canvasApp "stackcanvas/internal/app"
)

func main() {
	canvasApp.Execute()
}
