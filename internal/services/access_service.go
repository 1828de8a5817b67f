package services

import (
	"time"

	"sharegate/internal/auth"
	"sharegate/internal/constants"
	"sharegate/internal/database"
	"sharegate/internal/logger"
	"sharegate/internal/sanitize"
)

// RequestResult reports what a request-access call did to the ledger.
// Exactly one of Created/Reopened/Idempotent is true.
type RequestResult struct {
	Status     string `json:"status"`
	Created    bool   `json:"created"`
	Reopened   bool   `json:"reopened"`
	Idempotent bool   `json:"idempotent"`
}

// RequestInfo is the external projection of a ledger row. Status flattens
// the four internal states to the historical boolean view: true only for
// active grants.
type RequestInfo struct {
	FileName    string `json:"file_name"`
	ClientID    string `json:"client_id"`
	RecipientID string `json:"recipient_id"`
	Status      bool   `json:"status"`
}

// AccessService is the access-control engine: it validates identity and
// ownership, then orchestrates registry reads and ledger writes inside one
// transaction per call. Caller-supplied owner IDs are claims; ownership is
// proven by the registry row, never assumed.
type AccessService struct {
	app    AppState
	logger *logger.Logger
}

// NewAccessService creates a new access service instance.
func NewAccessService(app AppState, log *logger.Logger) *AccessService {
	return &AccessService{
		app:    app,
		logger: log,
	}
}

// Request records that requesterID wants access to (ownerID, fileName).
// A first request creates a pending row; repeating it while pending or
// active is an idempotent no-op; after a deny or revoke the same row is
// reset to pending rather than duplicated. Requesting your own file is
// rejected: owners do not need grants.
func (s *AccessService) Request(fileName, ownerID, requesterID string) (*RequestResult, error) {
	if err := validateTriple(fileName, ownerID, requesterID); err != nil {
		return nil, err
	}
	if ownerID == requesterID {
		return nil, ErrSelfRequest
	}

	mu := s.app.GetFileMu(ownerID, fileName)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.app.GetLedgerDB().Begin()
	if err != nil {
		return nil, WrapInternalError(err)
	}
	defer tx.Rollback()

	file, err := database.GetFileTx(tx, ownerID, fileName)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if file == nil {
		return nil, ErrFileNotFoundWithName(ownerID, fileName)
	}

	now := time.Now().Unix()
	existing, err := database.GetRequestTx(tx, ownerID, fileName, requesterID)
	if err != nil {
		return nil, WrapInternalError(err)
	}

	result := &RequestResult{}
	switch {
	case existing == nil:
		if err := database.InsertRequestTx(tx, ownerID, fileName, requesterID, now); err != nil {
			return nil, WrapInternalError(err)
		}
		result.Status = constants.StatusPending
		result.Created = true

	case existing.Status == constants.StatusPending || existing.Status == constants.StatusActive:
		// Repeat request: report current state, change nothing.
		result.Status = existing.Status
		result.Idempotent = true

	default:
		// Denied or revoked: the triple's row is reset, not duplicated.
		reopened, err := database.ReopenRequestTx(tx, ownerID, fileName, requesterID, now)
		if err != nil {
			return nil, WrapInternalError(err)
		}
		if !reopened {
			return nil, ErrInvalidTransitionWithState("re-request", existing.Status)
		}
		result.Status = constants.StatusPending
		result.Reopened = true
	}

	if err := tx.Commit(); err != nil {
		return nil, WrapInternalError(err)
	}

	s.logger.Debug("Access request %s/%s by %s: status=%s created=%t reopened=%t idempotent=%t",
		ownerID, fileName, requesterID, result.Status, result.Created, result.Reopened, result.Idempotent)
	return result, nil
}

// Decide resolves a pending request: grant moves it to active, refusal to
// denied. Only the file's owner may decide, and only a pending request can
// be decided; racing decisions lose with InvalidTransition.
func (s *AccessService) Decide(fileName, ownerID, requesterID string, grant bool) (string, error) {
	if err := validateTriple(fileName, ownerID, requesterID); err != nil {
		return "", err
	}

	mu := s.app.GetFileMu(ownerID, fileName)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.app.GetLedgerDB().Begin()
	if err != nil {
		return "", WrapInternalError(err)
	}
	defer tx.Rollback()

	// Ownership check: the registry row is the proof, not the caller's claim.
	file, err := database.GetFileTx(tx, ownerID, fileName)
	if err != nil {
		return "", WrapInternalError(err)
	}
	if file == nil {
		return "", ErrForbidden
	}

	existing, err := database.GetRequestTx(tx, ownerID, fileName, requesterID)
	if err != nil {
		return "", WrapInternalError(err)
	}
	if existing == nil {
		return "", ErrRequestNotFound
	}
	if existing.Status != constants.StatusPending {
		return "", ErrInvalidTransitionWithState("decide", existing.Status)
	}

	applied, err := database.DecideRequestTx(tx, ownerID, fileName, requesterID, grant, time.Now().Unix())
	if err != nil {
		return "", WrapInternalError(err)
	}
	if !applied {
		return "", ErrInvalidTransitionWithState("decide", existing.Status)
	}

	if err := tx.Commit(); err != nil {
		return "", WrapInternalError(err)
	}

	newStatus := constants.StatusDenied
	if grant {
		newStatus = constants.StatusActive
	}
	s.logger.Info("Access %s/%s for %s: %s", ownerID, fileName, requesterID, newStatus)
	return newStatus, nil
}

// Revoke withdraws an active grant. Only active grants can be revoked;
// pending requests are resolved with Decide, terminal rows stay terminal.
func (s *AccessService) Revoke(fileName, ownerID, requesterID string) error {
	if err := validateTriple(fileName, ownerID, requesterID); err != nil {
		return err
	}

	mu := s.app.GetFileMu(ownerID, fileName)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.app.GetLedgerDB().Begin()
	if err != nil {
		return WrapInternalError(err)
	}
	defer tx.Rollback()

	file, err := database.GetFileTx(tx, ownerID, fileName)
	if err != nil {
		return WrapInternalError(err)
	}
	if file == nil {
		return ErrForbidden
	}

	existing, err := database.GetRequestTx(tx, ownerID, fileName, requesterID)
	if err != nil {
		return WrapInternalError(err)
	}
	if existing == nil {
		return ErrRequestNotFound
	}
	if existing.Status != constants.StatusActive {
		return ErrInvalidTransitionWithState("revoke", existing.Status)
	}

	applied, err := database.RevokeRequestTx(tx, ownerID, fileName, requesterID, time.Now().Unix())
	if err != nil {
		return WrapInternalError(err)
	}
	if !applied {
		return ErrInvalidTransitionWithState("revoke", existing.Status)
	}

	if err := tx.Commit(); err != nil {
		return WrapInternalError(err)
	}

	s.logger.Info("Access %s/%s for %s: revoked", ownerID, fileName, requesterID)
	return nil
}

// ListRequests returns every ledger row across the owner's files, ordered
// by file name then requester.
func (s *AccessService) ListRequests(ownerID string) ([]database.AccessRequest, error) {
	if !auth.ValidClientID(ownerID) {
		return nil, ErrInvalidClientID
	}

	requests, err := database.ListRequestsByOwner(s.app.GetLedgerDB(), ownerID)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	return requests, nil
}

// ListRequestViews returns the flattened external projection of the
// owner's ledger rows.
func (s *AccessService) ListRequestViews(ownerID string) ([]RequestInfo, error) {
	requests, err := s.ListRequests(ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]RequestInfo, 0, len(requests))
	for i := range requests {
		r := &requests[i]
		views = append(views, RequestInfo{
			FileName:    r.FileName,
			ClientID:    r.OwnerID,
			RecipientID: r.RequesterID,
			Status:      r.IsActive(),
		})
	}
	return views, nil
}

// GetRequest returns the ledger row for a triple, failing with
// RequestNotFound when absent.
func (s *AccessService) GetRequest(fileName, ownerID, requesterID string) (*database.AccessRequest, error) {
	req, err := database.GetRequest(s.app.GetLedgerDB(), ownerID, fileName, requesterID)
	if err != nil {
		return nil, WrapInternalError(err)
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

// validateTriple checks the three identifiers every engine mutation needs.
func validateTriple(fileName, ownerID, requesterID string) error {
	if fileName == "" {
		return ErrMissingParamWithName("file_name")
	}
	if ownerID == "" {
		return ErrMissingParamWithName("owner_id")
	}
	if requesterID == "" {
		return ErrMissingParamWithName("requester_id")
	}
	if !sanitize.ValidFileName(fileName) {
		return ErrInvalidFileName
	}
	if !auth.ValidClientID(ownerID) || !auth.ValidClientID(requesterID) {
		return ErrInvalidClientID
	}
	return nil
}
