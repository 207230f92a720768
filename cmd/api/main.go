package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/yigit/vacantes/internal/server"
)

// Vacantes API
// Professors and institutions publish vacancies, students apply, and the
// parties of an application exchange messages. Accepted applications are
// recorded in the association ledger.
//
// BasePath: /api/v1
// Security: Bearer JWT in the Authorization header

func main() {
	srv, err := server.NewServer()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	log.Info().Msg("Application finished gracefully.")
}
