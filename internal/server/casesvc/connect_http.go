package casesvc

import (
	"net/http"

	"github.com/flarebyte/baldrick-casetrail/internal/server/wire"
)

// ConnectHandler is the Connect-style JSON surface; it routes by full method
// path and shares the RPC methods with the gRPC registration.
func (s *Service) ConnectHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/casetrail.v1.CaseService/CreateCase", wire.Post(s.CreateCase))
	mux.Handle("/casetrail.v1.CaseService/CreateVersion", wire.Post(s.CreateVersion))
	mux.Handle("/casetrail.v1.CaseService/GetCase", wire.Post(s.GetCase))
	mux.Handle("/casetrail.v1.CaseService/GetVersion", wire.Post(s.GetVersion))
	mux.Handle("/casetrail.v1.CaseService/ListCases", wire.Post(s.ListCases))
	mux.Handle("/casetrail.v1.CaseService/Diff", wire.Post(s.Diff))
	mux.Handle("/casetrail.v1.CaseService/DeleteCase", wire.Post(s.DeleteCase))
	mux.Handle("/casetrail.v1.CaseService/SetSuite", wire.Post(s.SetSuite))
	mux.Handle("/casetrail.v1.CaseService/ListSuites", wire.Post(s.ListSuites))
	mux.Handle("/casetrail.v1.CaseService/ImportCSV", wire.Post(s.ImportCSV))
	return mux
}
