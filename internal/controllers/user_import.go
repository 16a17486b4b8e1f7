package controllers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aakashdp/labadmin_backend/internal/models"
	"github.com/aakashdp/labadmin_backend/internal/utils"
)

type userImportError struct {
	Row   int    `json:"row"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}

// ImportUsers bulk-creates users from a CSV file.
// Expected header columns (case-insensitive): name, email, password, role.
func (uc *UserController) ImportUsers(c *gin.Context) {
	// 10MB cap to avoid accidental huge files.
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
		return
	}
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if fileHeader == nil || !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv files are allowed"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is empty"})
		return
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read csv header"})
		return
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "email", "password"} {
		if _, ok := cols[required]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required column: " + required})
			return
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	created := 0
	importErrors := []userImportError{}
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			importErrors = append(importErrors, userImportError{Row: row, Error: "malformed csv row"})
			continue
		}

		name := field(record, "name")
		email := field(record, "email")
		password := field(record, "password")
		role := models.Role(field(record, "role"))
		if role == "" {
			role = models.RoleStudent
		}

		if name == "" || email == "" || password == "" {
			importErrors = append(importErrors, userImportError{Row: row, Email: email, Error: "name, email and password are required"})
			continue
		}
		if !models.IsValidRole(role) {
			importErrors = append(importErrors, userImportError{Row: row, Email: email, Error: "invalid role"})
			continue
		}

		var count int64
		if err := uc.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			importErrors = append(importErrors, userImportError{Row: row, Email: email, Error: err.Error()})
			continue
		}
		if count > 0 {
			importErrors = append(importErrors, userImportError{Row: row, Email: email, Error: "email already exists"})
			continue
		}

		hashed, err := utils.HashPassword(password)
		if err != nil {
			importErrors = append(importErrors, userImportError{Row: row, Email: email, Error: "failed to hash password"})
			continue
		}

		user := models.User{Name: name, Email: email, Role: role, PasswordHash: hashed}
		if err := uc.DB.Create(&user).Error; err != nil {
			importErrors = append(importErrors, userImportError{Row: row, Email: email, Error: err.Error()})
			continue
		}
		created++
	}

	status := http.StatusOK
	if created == 0 && len(importErrors) > 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{
		"created": created,
		"errors":  importErrors,
	})
}
