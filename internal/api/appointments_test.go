package api

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/clinicbackend/internal/models"
	"github.com/clinicbackend/internal/store"
)

type fakeAppointments struct {
	booked      []models.Appointment
	reviewErr   error
	reviewed    map[string]models.AppointmentStatus
	forDoctor   []models.Appointment
	lastPatient string
	lastDoctor  string
}

func (f *fakeAppointments) BookAppointment(ctx context.Context, patientID, doctorID string, at time.Time) (models.Appointment, error) {
	f.lastPatient = patientID
	f.lastDoctor = doctorID
	appt := models.Appointment{
		ID:              "appt-1",
		ConsultingID:    "abc12345",
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentTime: at,
		Status:          models.AppointmentPending,
	}
	f.booked = append(f.booked, appt)
	return appt, nil
}

func (f *fakeAppointments) ReviewAppointment(ctx context.Context, appointmentID string, status models.AppointmentStatus) error {
	if f.reviewErr != nil {
		return f.reviewErr
	}
	if f.reviewed == nil {
		f.reviewed = map[string]models.AppointmentStatus{}
	}
	f.reviewed[appointmentID] = status
	return nil
}

func (f *fakeAppointments) AppointmentsForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	f.lastDoctor = doctorID
	return f.forDoctor, nil
}

func TestBookAppointment(t *testing.T) {
	fa := &fakeAppointments{}
	app := newTestApp()
	app.Appointments = fa

	headers := bearerHeaders(t, app, "P9", "Pat", models.RolePatient)
	body := `{"doctorId":"D1","appointmentTime":"2026-09-01T10:00:00Z"}`

	resp, err := app.HandleBookAppointment(context.Background(), request(headers, nil, body))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, resp.Body)
	}
	if fa.lastPatient != "P9" || fa.lastDoctor != "D1" {
		t.Errorf("booking used wrong ids: patient %s doctor %s", fa.lastPatient, fa.lastDoctor)
	}

	var out models.Appointment
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.ConsultingID == "" || out.Status != models.AppointmentPending {
		t.Errorf("unexpected appointment %+v", out)
	}
}

func TestBookAppointmentBadTime(t *testing.T) {
	fa := &fakeAppointments{}
	app := newTestApp()
	app.Appointments = fa

	headers := bearerHeaders(t, app, "P9", "Pat", models.RolePatient)
	resp, _ := app.HandleBookAppointment(context.Background(), request(headers, nil, `{"doctorId":"D1","appointmentTime":"tomorrow"}`))
	if resp.StatusCode != 400 {
		t.Errorf("expected 400 for unparseable time, got %d", resp.StatusCode)
	}
	if len(fa.booked) != 0 {
		t.Errorf("expected no booking, got %d", len(fa.booked))
	}
}

func TestBookAppointmentDoctorForbidden(t *testing.T) {
	app := newTestApp()
	app.Appointments = &fakeAppointments{}

	headers := bearerHeaders(t, app, "D1", "Dr. Lee", models.RoleDoctor)
	resp, _ := app.HandleBookAppointment(context.Background(), request(headers, nil, `{"doctorId":"D1","appointmentTime":"2026-09-01T10:00:00Z"}`))
	if resp.StatusCode != 403 {
		t.Errorf("expected 403 for doctor booking, got %d", resp.StatusCode)
	}
}

func TestReviewAppointment(t *testing.T) {
	fa := &fakeAppointments{}
	app := newTestApp()
	app.Appointments = fa

	headers := bearerHeaders(t, app, "H1", "General", models.RoleHospital)
	resp, _ := app.HandleReviewAppointment(context.Background(), request(headers, nil, `{"appointmentId":"appt-1","status":"Approved"}`))
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if fa.reviewed["appt-1"] != models.AppointmentApproved {
		t.Errorf("expected appt-1 approved, got %+v", fa.reviewed)
	}

	resp, _ = app.HandleReviewAppointment(context.Background(), request(headers, nil, `{"appointmentId":"appt-1","status":"Maybe"}`))
	if resp.StatusCode != 400 {
		t.Errorf("expected 400 for invalid status, got %d", resp.StatusCode)
	}
}

func TestReviewAppointmentNotFound(t *testing.T) {
	app := newTestApp()
	app.Appointments = &fakeAppointments{reviewErr: store.ErrNotFound}

	headers := bearerHeaders(t, app, "H1", "General", models.RoleHospital)
	resp, _ := app.HandleReviewAppointment(context.Background(), request(headers, nil, `{"appointmentId":"missing","status":"Rejected"}`))
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListAppointments(t *testing.T) {
	fa := &fakeAppointments{forDoctor: []models.Appointment{{ID: "appt-1", Status: models.AppointmentApproved}}}
	app := newTestApp()
	app.Appointments = fa

	headers := bearerHeaders(t, app, "D1", "Dr. Lee", models.RoleDoctor)
	resp, _ := app.HandleListAppointments(context.Background(), request(headers, nil, ""))
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, resp.Body)
	}
	if fa.lastDoctor != "D1" {
		t.Errorf("expected list for D1, got %s", fa.lastDoctor)
	}

	var out []models.Appointment
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(out) != 1 || out[0].ID != "appt-1" {
		t.Errorf("unexpected appointments %+v", out)
	}
}
