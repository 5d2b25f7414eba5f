package main

import (
	"github.com/jukulab/hansei/core/teacher"
)

// addTeacher creates a teacher account that can log in with the given
// employee code.
func (cli *commandLine) addTeacher(name, code, subject, email, pwd string) error {
	nt := teacher.NewTeacher{
		Name:         name,
		Subject:      subject,
		Email:        email,
		EmployeeCode: code,
		Password:     pwd,
	}
	t, err := cli.teacherSvc.Create(nt)
	if err != nil {
		return err
	}
	logger.Printf("teacher %q created with employee code %q", t.Name, t.EmployeeCode)
	return nil
}
