package runsvc

import (
	"net/http"

	"github.com/flarebyte/baldrick-casetrail/internal/server/wire"
)

// ConnectHandler is the Connect-style JSON surface for runs and results.
func (s *Service) ConnectHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/casetrail.v1.RunService/CreateRun", wire.Post(s.CreateRun))
	mux.Handle("/casetrail.v1.RunService/GetRun", wire.Post(s.GetRun))
	mux.Handle("/casetrail.v1.RunService/ListRuns", wire.Post(s.ListRuns))
	mux.Handle("/casetrail.v1.RunService/SetStatus", wire.Post(s.SetStatus))
	mux.Handle("/casetrail.v1.RunService/DeleteRun", wire.Post(s.DeleteRun))
	mux.Handle("/casetrail.v1.RunService/GetExecution", wire.Post(s.GetExecution))
	mux.Handle("/casetrail.v1.RunService/SaveResult", wire.Post(s.SaveResult))
	return mux
}
