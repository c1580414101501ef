// file: internals/features/finance/payment_plans/controller/controller_db_test.go
package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	planModel "sekolahku_backend/internals/features/finance/payment_plans/model"
	service "sekolahku_backend/internals/features/finance/payment_plans/service"
	notifService "sekolahku_backend/internals/features/notifications/service"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

var dbTestNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

// Skema digambar tangan: mencerminkan tag gorm di model (termasuk partial
// unique index uniq_plan_school_name yang mengabaikan baris soft-deleted).
var testSchema = []string{
	`CREATE TABLE payment_plans (
		payment_plan_id TEXT PRIMARY KEY,
		payment_plan_school_id TEXT NOT NULL,
		payment_plan_name TEXT NOT NULL,
		payment_plan_total_amount TEXT NOT NULL,
		payment_plan_installment_count INTEGER NOT NULL,
		payment_plan_term_id TEXT,
		payment_plan_created_at DATETIME NOT NULL,
		payment_plan_updated_at DATETIME NOT NULL,
		payment_plan_deleted_at DATETIME
	)`,
	`CREATE UNIQUE INDEX uniq_plan_school_name
		ON payment_plans(payment_plan_school_id, payment_plan_name)
		WHERE payment_plan_deleted_at IS NULL`,
	`CREATE TABLE student_payment_plans (
		student_payment_plan_id TEXT PRIMARY KEY,
		student_payment_plan_school_id TEXT NOT NULL,
		student_payment_plan_school_student_id TEXT NOT NULL,
		student_payment_plan_payment_plan_id TEXT NOT NULL,
		student_payment_plan_total_amount TEXT NOT NULL,
		student_payment_plan_status TEXT NOT NULL,
		student_payment_plan_created_at DATETIME NOT NULL,
		student_payment_plan_updated_at DATETIME NOT NULL,
		UNIQUE (student_payment_plan_school_student_id, student_payment_plan_payment_plan_id)
	)`,
	`CREATE TABLE installments (
		installment_id TEXT PRIMARY KEY,
		installment_school_id TEXT NOT NULL,
		installment_student_payment_plan_id TEXT NOT NULL,
		installment_number INTEGER NOT NULL,
		installment_amount TEXT NOT NULL,
		installment_paid_amount TEXT NOT NULL,
		installment_due_date DATETIME NOT NULL,
		installment_status TEXT NOT NULL,
		installment_paid_date DATETIME,
		installment_reminder_sent INTEGER NOT NULL DEFAULT 0,
		installment_reminder_sent_at DATETIME,
		installment_created_at DATETIME NOT NULL,
		installment_updated_at DATETIME NOT NULL,
		UNIQUE (installment_student_payment_plan_id, installment_number)
	)`,
	`CREATE TABLE school_students (
		school_student_id TEXT PRIMARY KEY,
		school_student_school_id TEXT NOT NULL,
		school_student_name TEXT NOT NULL,
		school_student_number TEXT NOT NULL,
		school_student_phone TEXT,
		school_student_class_name TEXT,
		school_student_is_active INTEGER NOT NULL DEFAULT 1,
		school_student_created_at DATETIME NOT NULL,
		school_student_updated_at DATETIME NOT NULL,
		school_student_deleted_at DATETIME,
		UNIQUE (school_student_school_id, school_student_number)
	)`,
	`CREATE TABLE installment_payments (
		installment_payment_id TEXT PRIMARY KEY,
		installment_payment_school_id TEXT NOT NULL,
		installment_payment_installment_id TEXT NOT NULL,
		installment_payment_amount TEXT NOT NULL,
		installment_payment_status TEXT NOT NULL,
		installment_payment_method TEXT NOT NULL,
		installment_payment_note TEXT,
		installment_payment_external_id TEXT UNIQUE,
		installment_payment_snap_token TEXT,
		installment_payment_checkout_url TEXT,
		installment_payment_provider_payload TEXT,
		installment_payment_requested_at DATETIME,
		installment_payment_paid_at DATETIME,
		installment_payment_created_at DATETIME NOT NULL,
		installment_payment_updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE notification_logs (
		notification_log_id TEXT PRIMARY KEY,
		notification_log_school_id TEXT NOT NULL,
		notification_log_installment_id TEXT NOT NULL,
		notification_log_recipient TEXT NOT NULL,
		notification_log_message TEXT NOT NULL,
		notification_log_outcome TEXT NOT NULL,
		notification_log_provider_response TEXT,
		notification_log_created_at DATETIME NOT NULL
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	for _, ddl := range testSchema {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

// newTestApp meniru hasil hydrate AuthJWT: tenant masuk lewat locals.
func newTestApp(schoolID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocSchoolID, schoolID.String())
		return c.Next()
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func seedPlan(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string, total int64) planModel.PaymentPlan {
	t.Helper()
	plan := planModel.PaymentPlan{
		PaymentPlanSchoolID:         schoolID,
		PaymentPlanName:             name,
		PaymentPlanTotalAmount:      decimal.NewFromInt(total),
		PaymentPlanInstallmentCount: 3,
	}
	require.NoError(t, db.Create(&plan).Error)
	return plan
}

func seedStudent(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name, number string) studentModel.SchoolStudent {
	t.Helper()
	phone := "+628123456789"
	s := studentModel.SchoolStudent{
		SchoolStudentSchoolID: schoolID,
		SchoolStudentName:     name,
		SchoolStudentNumber:   number,
		SchoolStudentPhone:    &phone,
		SchoolStudentIsActive: true,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

/* =========================================================
   Enrollment: duplikat per (siswa, plan) harus 409
   ========================================================= */

func TestEnrollDuplicateStudentConflict(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	plan := seedPlan(t, db, schoolID, "SPP Semester Ganjil", 90000)
	student := seedStudent(t, db, schoolID, "Budi Santoso", "S-001")

	h := NewStudentPaymentPlanHandler(db)
	app := newTestApp(schoolID)
	app.Post("/api/a/:school_id/payment-plans/:id/enroll", h.Enroll)

	target := fmt.Sprintf("/api/a/%s/payment-plans/%s/enroll", schoolID, plan.PaymentPlanID)
	body := map[string]any{
		"school_student_id": student.SchoolStudentID,
		"due_dates":         []string{"2026-07-01T00:00:00Z", "2026-08-01T00:00:00Z", "2026-09-01T00:00:00Z"},
	}

	code, resp := doJSON(t, app, http.MethodPost, target, body)
	require.Equal(t, fiber.StatusCreated, code, "first enroll: %v", resp)

	var installed int64
	require.NoError(t, db.Model(&planModel.Installment{}).
		Where("installment_school_id = ?", schoolID).
		Count(&installed).Error)
	assert.EqualValues(t, 3, installed)

	code, resp = doJSON(t, app, http.MethodPost, target, body)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "student already enrolled in this plan", resp["message"])

	// enrollment kedua tidak boleh meninggalkan jadwal yatim
	require.NoError(t, db.Model(&planModel.Installment{}).
		Where("installment_school_id = ?", schoolID).
		Count(&installed).Error)
	assert.EqualValues(t, 3, installed)
}

/* =========================================================
   Delete plan: ditolak selama masih ada siswa terdaftar,
   pesan membawa jumlah enrollment
   ========================================================= */

func TestDeletePlanWithEnrollmentsConflict(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	plan := seedPlan(t, db, schoolID, "SPP Tahunan", 120000)
	student := seedStudent(t, db, schoolID, "Siti Aminah", "S-002")

	enrollment := planModel.StudentPaymentPlan{
		StudentPaymentPlanSchoolID:        schoolID,
		StudentPaymentPlanSchoolStudentID: student.SchoolStudentID,
		StudentPaymentPlanPaymentPlanID:   plan.PaymentPlanID,
		StudentPaymentPlanTotalAmount:     plan.PaymentPlanTotalAmount,
		StudentPaymentPlanStatus:          planModel.StudentPaymentPlanStatusActive,
	}
	require.NoError(t, db.Create(&enrollment).Error)

	h := NewPaymentPlanHandler(db)
	app := newTestApp(schoolID)
	app.Delete("/api/a/:school_id/payment-plans/:id", h.Delete)

	code, resp := doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/a/%s/payment-plans/%s", schoolID, plan.PaymentPlanID), nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "cannot delete plan: 1 students enrolled", resp["message"])

	// plan masih hidup setelah delete gagal
	var alive int64
	require.NoError(t, db.Model(&planModel.PaymentPlan{}).
		Where("payment_plan_id = ?", plan.PaymentPlanID).
		Count(&alive).Error)
	assert.EqualValues(t, 1, alive)
}

/* =========================================================
   Delete plan tanpa enrollment: nama bisa dipakai ulang
   (index unik parsial mengabaikan baris soft-deleted)
   ========================================================= */

func TestDeletePlanFreesNameForReuse(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()

	h := NewPaymentPlanHandler(db)
	app := newTestApp(schoolID)
	app.Post("/api/a/:school_id/payment-plans", h.Create)
	app.Delete("/api/a/:school_id/payment-plans/:id", h.Delete)

	base := fmt.Sprintf("/api/a/%s/payment-plans", schoolID)
	body := map[string]any{
		"payment_plan_name":              "SPP Kelas 7",
		"payment_plan_total_amount":      "150000",
		"payment_plan_installment_count": 3,
	}

	code, resp := doJSON(t, app, http.MethodPost, base, body)
	require.Equal(t, fiber.StatusCreated, code, "create: %v", resp)
	firstID := resp["data"].(map[string]any)["payment_plan_id"].(string)

	// nama yang masih hidup tetap eksklusif
	code, resp = doJSON(t, app, http.MethodPost, base, body)
	require.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "payment plan with the same name already exists", resp["message"])

	code, _ = doJSON(t, app, http.MethodDelete, base+"/"+firstID, nil)
	require.Equal(t, fiber.StatusOK, code)

	// setelah soft delete, nama yang sama boleh dibuat lagi
	code, resp = doJSON(t, app, http.MethodPost, base, body)
	assert.Equal(t, fiber.StatusCreated, code, "recreate after delete: %v", resp)
}

/* =========================================================
   Summary: tenant kosong harus nol semua, bukan error/null
   ========================================================= */

func TestSummaryZeroOnEmptyTenant(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()

	h := NewInstallmentHandler(db)
	h.Now = func() time.Time { return dbTestNow }
	app := newTestApp(schoolID)
	app.Get("/api/a/:school_id/payment-plans/summary", h.Summary)

	code, resp := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/a/%s/payment-plans/summary", schoolID), nil)
	require.Equal(t, fiber.StatusOK, code, "summary: %v", resp)

	data := resp["data"].(map[string]any)
	assert.EqualValues(t, 0, data["total_students_enrolled"])
	assert.EqualValues(t, 0, data["active_plans"])
	assert.EqualValues(t, 0, data["completed_plans"])
	assert.EqualValues(t, 0, data["overdue_installments"])
	assert.EqualValues(t, 0, data["upcoming_installments"])
	assert.Equal(t, "0", data["total_expected"])
	assert.Equal(t, "0", data["total_collected"])
	assert.Equal(t, "0", data["total_outstanding"])
}

/* =========================================================
   Sweep: idempoten di level SQL dan sejalan dengan
   klasifikasi IsOverdueAt
   ========================================================= */

func TestSweepOverdueIdempotent(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	enrollmentID := uuid.New()

	seed := []planModel.Installment{
		{
			InstallmentSchoolID:             schoolID,
			InstallmentStudentPaymentPlanID: enrollmentID,
			InstallmentNumber:               1,
			InstallmentAmount:               decimal.NewFromInt(30000),
			InstallmentPaidAmount:           decimal.NewFromInt(10000),
			InstallmentDueDate:              dbTestNow.AddDate(0, -1, 0),
			InstallmentStatus:               planModel.InstallmentStatusPartial,
		},
		{
			InstallmentSchoolID:             schoolID,
			InstallmentStudentPaymentPlanID: enrollmentID,
			InstallmentNumber:               2,
			InstallmentAmount:               decimal.NewFromInt(30000),
			InstallmentPaidAmount:           decimal.Zero,
			InstallmentDueDate:              dbTestNow.AddDate(0, 0, -3),
			InstallmentStatus:               planModel.InstallmentStatusPending,
		},
		{
			InstallmentSchoolID:             schoolID,
			InstallmentStudentPaymentPlanID: enrollmentID,
			InstallmentNumber:               3,
			InstallmentAmount:               decimal.NewFromInt(30000),
			InstallmentPaidAmount:           decimal.Zero,
			InstallmentDueDate:              dbTestNow.AddDate(0, 1, 0),
			InstallmentStatus:               planModel.InstallmentStatusPending,
		},
		{
			InstallmentSchoolID:             schoolID,
			InstallmentStudentPaymentPlanID: enrollmentID,
			InstallmentNumber:               4,
			InstallmentAmount:               decimal.NewFromInt(30000),
			InstallmentPaidAmount:           decimal.NewFromInt(30000),
			InstallmentDueDate:              dbTestNow.AddDate(0, -2, 0),
			InstallmentStatus:               planModel.InstallmentStatusPaid,
		},
	}
	require.NoError(t, db.Create(&seed).Error)

	h := NewInstallmentHandler(db)
	h.Now = func() time.Time { return dbTestNow }
	app := newTestApp(schoolID)
	app.Post("/api/a/:school_id/installments/sweep-overdue", h.SweepOverdue)

	target := fmt.Sprintf("/api/a/%s/installments/sweep-overdue", schoolID)

	code, resp := doJSON(t, app, http.MethodPost, target, nil)
	require.Equal(t, fiber.StatusOK, code, "sweep: %v", resp)
	assert.EqualValues(t, 2, resp["data"].(map[string]any)["marked_overdue"])

	// status akhir tiap baris harus cocok dengan klasifikasi fungsi murni
	var after []planModel.Installment
	require.NoError(t, db.
		Where("installment_school_id = ?", schoolID).
		Order("installment_number ASC").
		Find(&after).Error)
	require.Len(t, after, 4)
	for i, row := range after {
		wantOverdue := service.IsOverdueAt(seed[i], dbTestNow)
		assert.Equal(t, wantOverdue, row.InstallmentStatus == planModel.InstallmentStatusOverdue,
			"installment #%d", row.InstallmentNumber)
	}
	assert.Equal(t, planModel.InstallmentStatusPaid, after[3].InstallmentStatus)

	// sapuan kedua tidak menemukan apa-apa lagi
	code, resp = doJSON(t, app, http.MethodPost, target, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 0, resp["data"].(map[string]any)["marked_overdue"])
}

/* =========================================================
   Reminder: cicilan yang tidak ada harus 404 walau provider
   belum dikonfigurasi (bukan 400)
   ========================================================= */

func TestReminderMissingInstallmentNotFound(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()

	h := NewReminderHandler(db, notifService.NewWhatsAppSender("", ""))
	h.Now = func() time.Time { return dbTestNow }
	app := newTestApp(schoolID)
	app.Post("/api/a/:school_id/installments/:id/remind", h.SendReminder)

	code, resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/a/%s/installments/%s/remind", schoolID, uuid.New()), nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "installment not found", resp["message"])
}

func TestReminderUnconfiguredProviderBadRequest(t *testing.T) {
	db := newTestDB(t)
	schoolID := uuid.New()
	enrollmentID := uuid.New()

	inst := planModel.Installment{
		InstallmentSchoolID:             schoolID,
		InstallmentStudentPaymentPlanID: enrollmentID,
		InstallmentNumber:               1,
		InstallmentAmount:               decimal.NewFromInt(30000),
		InstallmentPaidAmount:           decimal.Zero,
		InstallmentDueDate:              dbTestNow.AddDate(0, 0, 2),
		InstallmentStatus:               planModel.InstallmentStatusPending,
	}
	require.NoError(t, db.Create(&inst).Error)

	h := NewReminderHandler(db, notifService.NewWhatsAppSender("", ""))
	h.Now = func() time.Time { return dbTestNow }
	app := newTestApp(schoolID)
	app.Post("/api/a/:school_id/installments/:id/remind", h.SendReminder)

	code, resp := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/a/%s/installments/%s/remind", schoolID, inst.InstallmentID), nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, notifService.ErrNotConfigured.Error(), resp["message"])
}
