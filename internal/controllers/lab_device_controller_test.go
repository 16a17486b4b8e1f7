package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

func TestLabCRUD(t *testing.T) {
	r, db := newTestServer(t)
	adminToken := login(t, r, testAdminEmail, testAdminPassword)

	registerUser(t, r, "Tina Tech", "tina@example.com", models.RoleLabTech)
	tech := userByEmail(t, db, "tina@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/labs", adminToken, map[string]interface{}{
		"labName": "Chemistry Lab", "location": "Block C", "labInchargeId": tech.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create lab: status %d, body %s", w.Code, w.Body.String())
	}
	labID := uint(decodeBody(t, w)["labId"].(float64))

	// An incharge id that does not exist is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/labs", adminToken, map[string]interface{}{
		"labName": "Ghost Lab", "location": "Nowhere", "labInchargeId": 9999,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad incharge: status %d, want 400", w.Code)
	}

	// The incharge is optional.
	w = doJSON(t, r, http.MethodPost, "/api/labs", adminToken, map[string]interface{}{
		"labName": "Physics Lab", "location": "Block A",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create lab without incharge: status %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/labs/%d", labID), adminToken, map[string]interface{}{
		"labName": "Chemistry Lab 2", "location": "Block D", "labInchargeId": tech.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update lab: status %d, body %s", w.Code, w.Body.String())
	}

	// Any authenticated user can read the lab list.
	studentToken := registerUser(t, r, "Sam Student", "sam@example.com", models.RoleStudent)
	w = doJSON(t, r, http.MethodGet, "/api/labs/list", studentToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("student lab list: status %d", w.Code)
	}
	var labs []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &labs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(labs) != 2 {
		t.Errorf("labs = %d, want 2", len(labs))
	}

	// But only admins mutate labs.
	if w := doJSON(t, r, http.MethodPost, "/api/labs", studentToken, map[string]interface{}{
		"labName": "Rogue Lab", "location": "Basement",
	}); w.Code != http.StatusForbidden {
		t.Errorf("student creates lab: status %d, want 403", w.Code)
	}

	// An empty lab deletes cleanly.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/labs/%d", labID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete empty lab: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestDeviceCRUD(t *testing.T) {
	r, db := newTestServer(t)
	adminToken := login(t, r, testAdminEmail, testAdminPassword)

	lab, device := seedLabAndDevice(t, db)

	// Duplicate serial numbers conflict.
	w := doJSON(t, r, http.MethodPost, "/api/devices", adminToken, map[string]interface{}{
		"deviceName": "Workstation 2", "deviceType": "Desktop", "serialNumber": device.SerialNumber,
		"status": "Operational", "labId": lab.ID,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate serial: status %d, want 409", w.Code)
	}

	// Unknown status values are rejected.
	w = doJSON(t, r, http.MethodPost, "/api/devices", adminToken, map[string]interface{}{
		"deviceName": "Workstation 2", "deviceType": "Desktop", "serialNumber": "SN-2001",
		"status": "Broken", "labId": lab.ID,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad status: status %d, want 400", w.Code)
	}

	// So is a lab that does not exist.
	w = doJSON(t, r, http.MethodPost, "/api/devices", adminToken, map[string]interface{}{
		"deviceName": "Workstation 2", "deviceType": "Desktop", "serialNumber": "SN-2001",
		"status": "Operational", "labId": 9999,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad lab: status %d, want 400", w.Code)
	}

	// A valid create lands in the lab filter.
	w = doJSON(t, r, http.MethodPost, "/api/devices", adminToken, map[string]interface{}{
		"deviceName": "Workstation 2", "deviceType": "Desktop", "brand": "HP", "model": "EliteDesk",
		"serialNumber": "SN-2001", "status": "UnderMaintenance", "labId": lab.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create device: status %d, body %s", w.Code, w.Body.String())
	}
	deviceID := uint(decodeBody(t, w)["deviceId"].(float64))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/devices/list?labId=%d", lab.ID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("device list: status %d", w.Code)
	}
	var devices []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &devices); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(devices) != 2 {
		t.Errorf("devices in lab = %d, want 2", len(devices))
	}

	// Update can move a device between statuses but keeps serial uniqueness.
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/devices/%d", deviceID), adminToken, map[string]interface{}{
		"deviceName": "Workstation 2", "deviceType": "Desktop", "brand": "HP", "model": "EliteDesk",
		"serialNumber": device.SerialNumber, "status": "Operational", "labId": lab.ID,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("update onto taken serial: status %d, want 409", w.Code)
	}
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/devices/%d", deviceID), adminToken, map[string]interface{}{
		"deviceName": "Workstation 2", "deviceType": "Desktop", "brand": "HP", "model": "EliteDesk",
		"serialNumber": "SN-2001", "status": "Operational", "labId": lab.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update device: status %d, body %s", w.Code, w.Body.String())
	}

	// A device with no tickets deletes cleanly.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/devices/%d", deviceID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete device: status %d, body %s", w.Code, w.Body.String())
	}
}
