package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbackend/internal/models"
)

// BookAppointment creates a Pending appointment with a short consulting id
// the patient can quote at the desk.
func (s *Store) BookAppointment(ctx context.Context, patientID, doctorID string, at time.Time) (models.Appointment, error) {
	appt := models.Appointment{
		ConsultingID:    uuid.NewString()[:8],
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentTime: at,
		Status:          models.AppointmentPending,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO appointments (consulting_id, patient_id, doctor_id, appointment_time, status)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		appt.ConsultingID, appt.PatientID, appt.DoctorID, appt.AppointmentTime, appt.Status,
	).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("booking appointment: %v", err)
	}
	return appt, nil
}

// ReviewAppointment moves a Pending appointment to Approved or Rejected.
func (s *Store) ReviewAppointment(ctx context.Context, appointmentID string, status models.AppointmentStatus) error {
	if status != models.AppointmentApproved && status != models.AppointmentRejected {
		return fmt.Errorf("store: %q is not a review outcome", status)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE appointments SET status = $1 WHERE id = $2",
		status, appointmentID,
	)
	if err != nil {
		return fmt.Errorf("reviewing appointment: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reviewing appointment: %v", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppointmentsForDoctor lists the doctor's approved appointments.
func (s *Store) AppointmentsForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, consulting_id, patient_id, doctor_id, appointment_time, status, created_at
		 FROM appointments
		 WHERE doctor_id = $1 AND status = $2
		 ORDER BY appointment_time`,
		doctorID, models.AppointmentApproved,
	)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %v", err)
	}
	defer rows.Close()

	var appointments []models.Appointment
	for rows.Next() {
		var appt models.Appointment
		if err := rows.Scan(&appt.ID, &appt.ConsultingID, &appt.PatientID, &appt.DoctorID,
			&appt.AppointmentTime, &appt.Status, &appt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning appointment: %v", err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing appointments: %v", err)
	}
	return appointments, nil
}
