package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Acurioustractor/palm-island-repository-sub003/storyservice"
)

func main() {
	if err := storyservice.Run(); err != nil {
		log.Error().Err(err).Msg("story-service exited with error")
		os.Exit(1)
	}
}
