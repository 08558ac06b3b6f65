package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}
	return nil
}

// GenerateExcel creates a spreadsheet from a slice of structs, one
// column per header, matching header names to struct fields. Used for
// reservation and catalog exports.
func GenerateExcel(data interface{}, taskName string, headers []string) (string, error) {
	dirPath := "./public/files"
	if err := EnsureDirectoryExists(dirPath + "/"); err != nil {
		return "", fmt.Errorf("failed to ensure directory exists: %v", err)
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("error setting header %s: %v", header, err)
		}
	}

	dataSlice := reflect.ValueOf(data)
	if dataSlice.Kind() != reflect.Slice {
		return "", fmt.Errorf("expected data to be a slice")
	}

	for row := 0; row < dataSlice.Len(); row++ {
		item := dataSlice.Index(row).Interface()

		for col, header := range headers {
			field := reflect.ValueOf(item).FieldByName(header)
			if !field.IsValid() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheetName, cell, field.Interface()); err != nil {
				return "", fmt.Errorf("error setting value for field %s row %d: %v", header, row+2, err)
			}
		}
	}

	f.SetActiveSheet(index)

	fileName := fmt.Sprintf("%s_%s.xlsx", taskName, time.Now().Format("2006-01-02_15-04-05"))
	relativeFilePath := fmt.Sprintf("%s/%s", dirPath, fileName)

	if err := f.SaveAs(relativeFilePath); err != nil {
		return "", err
	}

	return fmt.Sprintf("/public/files/%s", fileName), nil
}
