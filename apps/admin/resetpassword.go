package main

func (cli *commandLine) resetPassword(code, pwd string) error {
	return cli.teacherSvc.ResetPassword(code, pwd)
}
