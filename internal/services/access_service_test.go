package services

import (
	"sync"
	"testing"

	"sharegate/internal/constants"
	"sharegate/internal/logger"
)

func TestNewAccessService(t *testing.T) {
	mockApp := newMockAppState()
	log := logger.NewLogger("debug")

	svc := NewAccessService(mockApp, log)

	if svc == nil {
		t.Fatal("NewAccessService returned nil")
	}
	if svc.app != mockApp {
		t.Error("app field not set correctly")
	}
	if svc.logger != log {
		t.Error("logger field not set correctly")
	}
}

func TestAccessService_Request_InvalidParams(t *testing.T) {
	mockApp := newTestApp(t)
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	tests := []struct {
		name        string
		fileName    string
		ownerID     string
		requesterID string
		wantCode    string
	}{
		{"missing file name", "", "alice", "bob", constants.ErrCodeInvalidRequest},
		{"missing owner", "report.pdf", "", "bob", constants.ErrCodeInvalidRequest},
		{"missing requester", "report.pdf", "alice", "", constants.ErrCodeInvalidRequest},
		{"traversal file name", "../etc/passwd", "alice", "bob", constants.ErrCodeInvalidFileName},
		{"bad owner id", "report.pdf", "al ice", "bob", constants.ErrCodeInvalidClientID},
		{"bad requester id", "report.pdf", "alice", "b#b", constants.ErrCodeInvalidClientID},
		{"self request", "report.pdf", "alice", "alice", constants.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Request(tt.fileName, tt.ownerID, tt.requesterID)
			if err == nil {
				t.Fatal("expected error but got nil")
			}

			code, ok := IsServiceError(err)
			if !ok {
				t.Fatalf("expected ServiceError but got: %T", err)
			}
			if code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestAccessService_Request_FileNotFound(t *testing.T) {
	mockApp := newTestApp(t)
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	_, err := svc.Request("missing.pdf", "alice", "bob")
	if err == nil {
		t.Fatal("expected error but got nil")
	}

	code, ok := IsServiceError(err)
	if !ok {
		t.Fatalf("expected ServiceError but got: %T", err)
	}
	if code != constants.ErrCodeFileNotFound {
		t.Errorf("error code = %q, want %q", code, constants.ErrCodeFileNotFound)
	}
}

func TestAccessService_Request_CreatesPending(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	result, err := svc.Request("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if !result.Created || result.Reopened || result.Idempotent {
		t.Errorf("result = %+v, want created only", result)
	}
	if result.Status != constants.StatusPending {
		t.Errorf("status = %q, want %q", result.Status, constants.StatusPending)
	}

	req, err := svc.GetRequest("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if req.Status != constants.StatusPending {
		t.Errorf("stored status = %q, want %q", req.Status, constants.StatusPending)
	}
	if req.DecidedAt != nil || req.RevokedAt != nil {
		t.Error("fresh request should have no decision timestamps")
	}
}

func TestAccessService_Request_IdempotentWhilePending(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	result, err := svc.Request("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("repeat request failed: %v", err)
	}
	if !result.Idempotent {
		t.Errorf("result = %+v, want idempotent", result)
	}
	if result.Status != constants.StatusPending {
		t.Errorf("status = %q, want %q", result.Status, constants.StatusPending)
	}
}

func TestAccessService_Request_IdempotentWhileActive(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Decide("report.pdf", "alice", "bob", true); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	result, err := svc.Request("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("repeat request failed: %v", err)
	}
	if !result.Idempotent {
		t.Errorf("result = %+v, want idempotent", result)
	}
	if result.Status != constants.StatusActive {
		t.Errorf("status = %q, want %q", result.Status, constants.StatusActive)
	}
}

func TestAccessService_Request_ReopensAfterDeny(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Decide("report.pdf", "alice", "bob", false); err != nil {
		t.Fatalf("deny failed: %v", err)
	}

	result, err := svc.Request("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("re-request failed: %v", err)
	}
	if !result.Reopened {
		t.Errorf("result = %+v, want reopened", result)
	}

	req, err := svc.GetRequest("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if req.Status != constants.StatusPending {
		t.Errorf("status after reopen = %q, want %q", req.Status, constants.StatusPending)
	}
	if req.DecidedAt != nil || req.RevokedAt != nil {
		t.Error("reopen should clear decision timestamps")
	}
}

func TestAccessService_Request_ReopensAfterRevoke(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Decide("report.pdf", "alice", "bob", true); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.Revoke("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	result, err := svc.Request("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("re-request failed: %v", err)
	}
	if !result.Reopened {
		t.Errorf("result = %+v, want reopened", result)
	}
	if result.Status != constants.StatusPending {
		t.Errorf("status = %q, want %q", result.Status, constants.StatusPending)
	}
}

func TestAccessService_Decide_GrantAndDeny(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "a.txt")
	registerTestFile(t, mockApp, "alice", "b.txt")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	for _, f := range []string{"a.txt", "b.txt"} {
		if _, err := svc.Request(f, "alice", "bob"); err != nil {
			t.Fatalf("request %s failed: %v", f, err)
		}
	}

	status, err := svc.Decide("a.txt", "alice", "bob", true)
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if status != constants.StatusActive {
		t.Errorf("grant status = %q, want %q", status, constants.StatusActive)
	}

	status, err = svc.Decide("b.txt", "alice", "bob", false)
	if err != nil {
		t.Fatalf("deny failed: %v", err)
	}
	if status != constants.StatusDenied {
		t.Errorf("deny status = %q, want %q", status, constants.StatusDenied)
	}

	for f, want := range map[string]string{"a.txt": constants.StatusActive, "b.txt": constants.StatusDenied} {
		req, err := svc.GetRequest(f, "alice", "bob")
		if err != nil {
			t.Fatalf("GetRequest %s failed: %v", f, err)
		}
		if req.Status != want {
			t.Errorf("%s status = %q, want %q", f, req.Status, want)
		}
		if req.DecidedAt == nil {
			t.Errorf("%s decided_at not set", f)
		}
	}
}

func TestAccessService_Decide_OnlyFromPending(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Decide("report.pdf", "alice", "bob", true); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	// Second decision must fail: the request is no longer pending.
	_, err := svc.Decide("report.pdf", "alice", "bob", false)
	if err == nil {
		t.Fatal("expected error deciding an active request")
	}
	code, _ := IsServiceError(err)
	if code != constants.ErrCodeInvalidTransition {
		t.Errorf("error code = %q, want %q", code, constants.ErrCodeInvalidTransition)
	}

	// The losing decision must not have changed the row.
	req, err := svc.GetRequest("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if req.Status != constants.StatusActive {
		t.Errorf("status = %q, want %q", req.Status, constants.StatusActive)
	}
}

func TestAccessService_Decide_RequestNotFound(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	_, err := svc.Decide("report.pdf", "alice", "bob", true)
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	code, _ := IsServiceError(err)
	if code != constants.ErrCodeRequestNotFound {
		t.Errorf("error code = %q, want %q", code, constants.ErrCodeRequestNotFound)
	}
}

func TestAccessService_Decide_ForbiddenWithoutRegistryRow(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Mallory claims to own alice's file; no registry row proves it.
	_, err := svc.Decide("report.pdf", "mallory", "bob", true)
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	code, _ := IsServiceError(err)
	if code != constants.ErrCodeForbidden {
		t.Errorf("error code = %q, want %q", code, constants.ErrCodeForbidden)
	}

	// The real request must be untouched.
	req, err := svc.GetRequest("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if req.Status != constants.StatusPending {
		t.Errorf("status = %q, want %q", req.Status, constants.StatusPending)
	}
}

func TestAccessService_Revoke_ActiveOnly(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Pending requests cannot be revoked, only decided.
	err := svc.Revoke("report.pdf", "alice", "bob")
	if err == nil {
		t.Fatal("expected error revoking a pending request")
	}
	code, _ := IsServiceError(err)
	if code != constants.ErrCodeInvalidTransition {
		t.Errorf("error code = %q, want %q", code, constants.ErrCodeInvalidTransition)
	}

	if _, err := svc.Decide("report.pdf", "alice", "bob", true); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.Revoke("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	req, err := svc.GetRequest("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if req.Status != constants.StatusRevoked {
		t.Errorf("status = %q, want %q", req.Status, constants.StatusRevoked)
	}
	if req.RevokedAt == nil {
		t.Error("revoked_at not set")
	}

	// Revoking again is an invalid transition, not a silent success.
	err = svc.Revoke("report.pdf", "alice", "bob")
	if err == nil {
		t.Fatal("expected error revoking a revoked request")
	}
	code, _ = IsServiceError(err)
	if code != constants.ErrCodeInvalidTransition {
		t.Errorf("error code = %q, want %q", code, constants.ErrCodeInvalidTransition)
	}
}

func TestAccessService_Revoke_Forbidden(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Decide("report.pdf", "alice", "bob", true); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	err := svc.Revoke("report.pdf", "mallory", "bob")
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	code, _ := IsServiceError(err)
	if code != constants.ErrCodeForbidden {
		t.Errorf("error code = %q, want %q", code, constants.ErrCodeForbidden)
	}

	req, err := svc.GetRequest("report.pdf", "alice", "bob")
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if req.Status != constants.StatusActive {
		t.Errorf("status = %q, want %q", req.Status, constants.StatusActive)
	}
}

func TestAccessService_ListRequestViews_FlattensStatus(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "a.txt")
	registerTestFile(t, mockApp, "alice", "b.txt")
	registerTestFile(t, mockApp, "alice", "c.txt")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	for _, f := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := svc.Request(f, "alice", "bob"); err != nil {
			t.Fatalf("request %s failed: %v", f, err)
		}
	}
	if _, err := svc.Decide("a.txt", "alice", "bob", true); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if _, err := svc.Decide("b.txt", "alice", "bob", false); err != nil {
		t.Fatalf("deny failed: %v", err)
	}

	views, err := svc.ListRequestViews("alice")
	if err != nil {
		t.Fatalf("ListRequestViews failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("got %d views, want 3", len(views))
	}

	// Ordered by file name; only the active grant reads true.
	wantStatus := []bool{true, false, false}
	for i, v := range views {
		if v.ClientID != "alice" || v.RecipientID != "bob" {
			t.Errorf("view %d identities = %s/%s, want alice/bob", i, v.ClientID, v.RecipientID)
		}
		if v.Status != wantStatus[i] {
			t.Errorf("view %d (%s) status = %t, want %t", i, v.FileName, v.Status, wantStatus[i])
		}
	}
}

func TestAccessService_ListRequests_EmptyOwner(t *testing.T) {
	mockApp := newTestApp(t)
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	requests, err := svc.ListRequests("alice")
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("got %d requests, want 0", len(requests))
	}
}

func TestAccessService_ConcurrentDecide_OneWinner(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	const racers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes, transitions int

	for i := 0; i < racers; i++ {
		wg.Add(1)
		grant := i%2 == 0
		go func(grant bool) {
			defer wg.Done()
			_, err := svc.Decide("report.pdf", "alice", "bob", grant)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if code, _ := IsServiceError(err); code == constants.ErrCodeInvalidTransition {
				transitions++
			}
		}(grant)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("got %d successful decisions, want exactly 1", successes)
	}
	if transitions != racers-1 {
		t.Errorf("got %d invalid-transition losses, want %d", transitions, racers-1)
	}
}

func TestAccessService_ConcurrentDecideAndDelete_NoSurvivingGrant(t *testing.T) {
	mockApp := newTestApp(t)
	log := logger.NewLogger("error")
	access := NewAccessService(mockApp, log)
	files := NewFileService(mockApp, log)

	// Race a grant against the file's deletion. Whichever order the mutex
	// serializes them in, the end state must hold: the registry row is gone
	// and no ledger row for the file is still active.
	for i := 0; i < 25; i++ {
		registerTestFile(t, mockApp, "alice", "report.pdf")
		if _, err := access.Request("report.pdf", "alice", "bob"); err != nil {
			t.Fatalf("request failed: %v", err)
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			// Loses with Forbidden when the delete lands first.
			access.Decide("report.pdf", "alice", "bob", true)
		}()
		go func() {
			defer wg.Done()
			files.Delete("alice", "report.pdf")
		}()
		wg.Wait()

		if _, err := files.Get("alice", "report.pdf"); err == nil {
			t.Fatal("registry row survived deletion")
		}
		req, err := access.GetRequest("report.pdf", "alice", "bob")
		if err != nil {
			t.Fatalf("GetRequest failed: %v", err)
		}
		if req.Status == constants.StatusActive {
			t.Fatalf("iteration %d: active grant outlived its file", i)
		}

		// Reset the ledger row for the next round.
		if _, err := mockApp.ledgerDB.Exec(`DELETE FROM access_requests`); err != nil {
			t.Fatalf("ledger reset failed: %v", err)
		}
	}
}

func TestAccessService_FullLifecycle(t *testing.T) {
	mockApp := newTestApp(t)
	registerTestFile(t, mockApp, "alice", "report.pdf")
	svc := NewAccessService(mockApp, logger.NewLogger("error"))

	// request → grant → revoke → re-request → deny → re-request → grant
	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := svc.Decide("report.pdf", "alice", "bob", true); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.Revoke("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("re-request failed: %v", err)
	}
	if _, err := svc.Decide("report.pdf", "alice", "bob", false); err != nil {
		t.Fatalf("deny failed: %v", err)
	}
	if _, err := svc.Request("report.pdf", "alice", "bob"); err != nil {
		t.Fatalf("second re-request failed: %v", err)
	}
	status, err := svc.Decide("report.pdf", "alice", "bob", true)
	if err != nil {
		t.Fatalf("final grant failed: %v", err)
	}
	if status != constants.StatusActive {
		t.Errorf("final status = %q, want %q", status, constants.StatusActive)
	}

	// Throughout the lifecycle only one row ever existed for the triple.
	requests, err := svc.ListRequests("alice")
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(requests) != 1 {
		t.Errorf("got %d ledger rows, want 1", len(requests))
	}
}
