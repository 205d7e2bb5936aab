package routes

import (
	"net/http"

	"github.com/just-nibble/bounty-service/internal/http/handlers"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires the platform handlers onto a ServeMux.
func NewRouter(th *handlers.TournamentHandler, ch *handlers.CommitHandler) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("POST /tournaments", th.Create)
	router.HandleFunc("GET /tournaments", th.List)
	router.HandleFunc("GET /tournaments/{id}", th.Get)
	router.HandleFunc("GET /tournaments/{id}/rounds/{index}", th.GetRound)
	router.HandleFunc("POST /tournaments/{id}/enter", th.Enter)
	router.HandleFunc("POST /tournaments/{id}/exit", th.Exit)
	router.HandleFunc("POST /tournaments/{id}/bounty", th.AddToBounty)
	router.HandleFunc("POST /tournaments/{id}/rounds/transfer", th.TransferToRound)
	router.HandleFunc("PUT /tournaments/{id}/rounds/next", th.UpdateNextRound)
	router.HandleFunc("POST /tournaments/{id}/rounds/start", th.StartNextRound)
	router.HandleFunc("POST /tournaments/{id}/submissions", th.CreateSubmission)
	router.HandleFunc("POST /tournaments/{id}/winners", th.SelectWinners)
	router.HandleFunc("POST /tournaments/{id}/close", th.CloseTournament)
	router.HandleFunc("POST /tournaments/{id}/withdraw", th.WithdrawFromAbandoned)
	router.HandleFunc("POST /tournaments/{id}/recover", th.RecoverBounty)

	router.HandleFunc("POST /commits", ch.Create)
	router.HandleFunc("GET /commits/{hash}", ch.Get)
	router.HandleFunc("POST /commits/{hash}/members", ch.AddGroupMember)
	router.HandleFunc("GET /commits/{hash}/reward", ch.AvailableReward)
	router.HandleFunc("POST /commits/{hash}/withdraw", ch.Withdraw)

	// Serve Swagger documentation
	router.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	return router
}
