// Package prompt fills form fields interactively from a terminal.
//
// Fill walks the form's fields in order and asks for each string, number and
// boolean value through a Driver. NewSurveyDriver backs the Driver with
// github.com/AlecAivazis/survey/v2; tests substitute a scripted stub.
package prompt
