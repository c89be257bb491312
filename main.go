package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/soocke/box-annotator/app"
	"github.com/soocke/box-annotator/cmd"
)

const version = "0.1.0"

func main() {
	root := cmd.NewRootCmd(runUI)

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}

func runUI(s cmd.Session) error {
	c, err := app.BuildContainer(s.Config, s.ConfigPath, s.Logger)
	if err != nil {
		return err
	}
	s.Logger.Info("starting annotator", "dataset", s.Config.DatasetDir, "index", s.Config.LastIndex, "image", s.Image)
	app.NewApp("Box Annotator", 1600, 960, c, s.Image).Start()
	return nil
}
