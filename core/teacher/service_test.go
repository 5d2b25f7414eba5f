package teacher

import "testing"

type fakeRepo struct {
	teachers map[string]Teacher // by employee code
}

func (r *fakeRepo) CreateTeacher(t Teacher) (Teacher, error) {
	if r.teachers == nil {
		r.teachers = make(map[string]Teacher)
	}
	r.teachers[t.EmployeeCode] = t
	return t, nil
}

func (r *fakeRepo) QueryAllTeachers() ([]Teacher, error) {
	out := make([]Teacher, 0, len(r.teachers))
	for _, t := range r.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeRepo) GetTeacherByID(id string) (Teacher, error) {
	for _, t := range r.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return Teacher{}, ErrNotFound
}

func (r *fakeRepo) GetTeacherByEmployeeCode(code string) (Teacher, error) {
	t, ok := r.teachers[code]
	if !ok {
		return Teacher{}, ErrNotFound
	}
	return t, nil
}

func (r *fakeRepo) SetTeacherPassword(id string, hash []byte) error {
	for code, t := range r.teachers {
		if t.ID == id {
			t.PasswordHash = hash
			r.teachers[code] = t
			return nil
		}
	}
	return ErrNotFound
}

func TestService_Create(t *testing.T) {
	svc := NewService(&fakeRepo{})

	tchr, err := svc.Create(NewTeacher{Name: " 田中 ", EmployeeCode: "T001", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tchr.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if tchr.Name != "田中" {
		t.Errorf("Create() name = %q, want cleaned %q", tchr.Name, "田中")
	}
	if err := tchr.CheckPassword("s3cret"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}

	if _, err := svc.Create(NewTeacher{Name: "佐藤", EmployeeCode: "T001", Password: "x"}); err != ErrEmployeeCodeExists {
		t.Errorf("Create() duplicate error = %v, want %v", err, ErrEmployeeCodeExists)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.Create(NewTeacher{Name: "田中", EmployeeCode: "T001", Password: "s3cret"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		code    string
		pwd     string
		wantErr error
	}{
		{name: "ok", code: "T001", pwd: "s3cret"},
		{name: "wrong password", code: "T001", pwd: "nope", wantErr: ErrNotFound},
		{name: "unknown code", code: "T999", pwd: "s3cret", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(tt.code, tt.pwd); err != tt.wantErr {
				t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_ResetPassword(t *testing.T) {
	svc := NewService(&fakeRepo{})
	if _, err := svc.Create(NewTeacher{Name: "田中", EmployeeCode: "T001", Password: "old"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.ResetPassword("T999", "new"); err != ErrNotFound {
		t.Errorf("ResetPassword() error = %v, want %v", err, ErrNotFound)
	}
	if err := svc.ResetPassword("T001", "new"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if _, err := svc.Authenticate("T001", "new"); err != nil {
		t.Errorf("Authenticate() with new password error = %v", err)
	}
	if _, err := svc.Authenticate("T001", "old"); err != ErrNotFound {
		t.Errorf("Authenticate() with old password error = %v, want %v", err, ErrNotFound)
	}
}
