package Controllers

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"Whiskers/middleware"
)

const requestLogPath = "logs/requests.log"

// readLogEntries reads up to limit entries from the end of the request
// log. The file is JSON lines, one entry per request.
func readLogEntries(path string, limit int) ([]middleware.LogData, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []middleware.LogData{}, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []middleware.LogData
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry middleware.LogData
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // skip malformed lines rather than failing the page
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// GetLogs returns the most recent request log entries.
// GET /api/logs?limit=200
func GetLogs(c *fiber.Ctx) error {
	limit := 200
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive number"})
		}
		limit = parsed
	}

	entries, err := readLogEntries(requestLogPath, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}
	return c.JSON(entries)
}

// GetLogStats aggregates the request log by status class and path.
func GetLogStats(c *fiber.Ctx) error {
	entries, err := readLogEntries(requestLogPath, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	statusClasses := map[string]int{}
	pathCounts := map[string]int{}
	for _, e := range entries {
		class := strconv.Itoa(e.Status/100) + "xx"
		statusClasses[class]++
		pathCounts[e.Path]++
	}

	return c.JSON(fiber.Map{
		"total":          len(entries),
		"status_classes": statusClasses,
		"paths":          pathCounts,
	})
}

// GetLogsByPath filters recent entries to a single route path.
// GET /api/logs/path/api-tasks maps "-" back to "/".
func GetLogsByPath(c *fiber.Ctx) error {
	path := "/" + strings.ReplaceAll(c.Params("path"), "-", "/")

	entries, err := readLogEntries(requestLogPath, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read logs"})
	}

	var filtered []middleware.LogData
	for _, e := range entries {
		if e.Path == path {
			filtered = append(filtered, e)
		}
	}
	return c.JSON(filtered)
}
