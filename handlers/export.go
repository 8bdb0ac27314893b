package handlers

import (
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gofiber/fiber/v2"
	"github.com/learllr/osteolog/middleware"
	"github.com/learllr/osteolog/models"
)

const (
	exportSheet    = "Rendez-vous"
	exportFilename = "rendez-vous.xlsx"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeaders = []string{"Date", "Début", "Fin", "Patient", "Statut", "Commentaire"}

// ExportAppointments sends the user's appointments as a spreadsheet
func (h *Handler) ExportAppointments(c *fiber.Ctx) error {
	appointments, err := h.store.AppointmentsByUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "listing appointments", err)
	}

	buf, err := appointmentsWorkbook(appointments).WriteToBuffer()
	if err != nil {
		return h.fail(c, "writing spreadsheet", err)
	}

	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, exportFilename))
	return c.Send(buf.Bytes())
}

func appointmentsWorkbook(appointments []models.Appointment) *excelize.File {
	file := excelize.NewFile()
	index := file.NewSheet(exportSheet)
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		file.SetCellValue(exportSheet, fmt.Sprintf("%c1", 'A'+i), header)
	}
	for i := range appointments {
		appendAppointmentRow(file, i+2, &appointments[i])
	}
	return file
}

func appendAppointmentRow(file *excelize.File, row int, a *models.Appointment) {
	patient := ""
	if a.Patient != nil {
		patient = a.Patient.FirstName + " " + a.Patient.LastName
	}
	file.SetCellValue(exportSheet, fmt.Sprintf("A%v", row), a.Start.UTC().Format(models.DisplayDateLayout))
	file.SetCellValue(exportSheet, fmt.Sprintf("B%v", row), a.Start.UTC().Format("15:04"))
	file.SetCellValue(exportSheet, fmt.Sprintf("C%v", row), a.End.UTC().Format("15:04"))
	file.SetCellValue(exportSheet, fmt.Sprintf("D%v", row), patient)
	file.SetCellValue(exportSheet, fmt.Sprintf("E%v", row), a.Status.Label())
	file.SetCellValue(exportSheet, fmt.Sprintf("F%v", row), a.Comment)
}
