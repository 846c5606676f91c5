package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ostech-hub/models"
)

// ParseCourseWorkbook reads an Excel workbook and returns catalog courses
// with flexible column detection. Rows missing a title or a positive price
// are skipped.
func ParseCourseWorkbook(filePath string) ([]models.Course, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data in sheet")
	}

	colIndices := detectCourseColumns(rows[0])

	var courses []models.Course
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			continue
		}

		title := extractField(row, colIndices["title"])
		priceStr := extractField(row, colIndices["price"])
		price, _ := strconv.ParseInt(strings.ReplaceAll(priceStr, ",", ""), 10, 64)

		if title == "" || price <= 0 {
			continue
		}

		lessons, _ := strconv.Atoi(extractField(row, colIndices["lessons"]))

		course := models.Course{
			Title:            title,
			ShortDescription: extractField(row, colIndices["short_description"]),
			Description:      extractField(row, colIndices["description"]),
			TrainerName:      extractField(row, colIndices["trainer"]),
			Price:            price,
			Category:         extractField(row, colIndices["category"]),
			Level:            extractField(row, colIndices["level"]),
			Duration:         extractField(row, colIndices["duration"]),
			Lessons:          lessons,
		}
		if course.Level == "" {
			course.Level = models.LevelBeginner
		}

		courses = append(courses, course)
	}

	return courses, nil
}

// detectCourseColumns maps known header names to column indices. Unknown
// headers leave the field at -1 and the column falls back to a default
// position.
func detectCourseColumns(headerRow []string) map[string]int {
	indices := map[string]int{
		"title":             -1,
		"short_description": -1,
		"description":       -1,
		"trainer":           -1,
		"price":             -1,
		"category":          -1,
		"level":             -1,
		"duration":          -1,
		"lessons":           -1,
	}

	for i, header := range headerRow {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case h == "title" || h == "course" || h == "course title" || h == "name":
			indices["title"] = i
		case strings.Contains(h, "short"):
			indices["short_description"] = i
		case h == "description" || h == "details":
			indices["description"] = i
		case strings.Contains(h, "trainer") || strings.Contains(h, "instructor"):
			indices["trainer"] = i
		case h == "price" || h == "fee" || h == "amount":
			indices["price"] = i
		case h == "category":
			indices["category"] = i
		case h == "level":
			indices["level"] = i
		case h == "duration":
			indices["duration"] = i
		case h == "lessons" || h == "lesson count":
			indices["lessons"] = i
		}
	}

	// Fall back to positional order for the required columns
	if indices["title"] == -1 {
		indices["title"] = 0
	}
	if indices["price"] == -1 {
		indices["price"] = 1
	}

	return indices
}

func extractField(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
