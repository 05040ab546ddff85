package players

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// parseImport reads a CSV or XLSX file from a multipart form file and
// returns the players it describes.
func parseImport(fh *multipart.FileHeader) ([]Player, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch ext {
	case ".csv":
		return parseCSV(file)
	case ".xlsx":
		b, err := io.ReadAll(io.LimitReader(file, 10<<20))
		if err != nil {
			return nil, err
		}
		return parseXLSX(b)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

func parseCSV(r io.Reader) ([]Player, error) {
	br := bufio.NewReader(r)
	// Peek the header line to guess the delimiter, then put it back.
	line, _ := br.ReadString('\n')
	rest := io.MultiReader(strings.NewReader(line), br)
	reader := csv.NewReader(rest)
	reader.FieldsPerRecord = -1
	if strings.Count(line, ";") > strings.Count(line, ",") {
		reader.Comma = ';'
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv")
	}
	headers := normHeaders(rows[0])
	var out []Player
	for i := 1; i < len(rows); i++ {
		if len(strings.TrimSpace(strings.Join(rows[i], ""))) == 0 {
			continue
		}
		p, err := rowToPlayer(headers, rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseXLSX(b []byte) ([]Player, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheet")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}
	headers := normHeaders(rows[0])
	var out []Player
	for i := 1; i < len(rows); i++ {
		p, err := rowToPlayer(headers, rows[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// normHeaders lowercases, strips punctuation and resolves common aliases so
// exports from different tools map onto one column set.
func normHeaders(hdr []string) map[int]string {
	aliases := map[string]string{
		"player":           "name",
		"playername":       "name",
		"fullname":         "name",
		"team":             "currentclub",
		"club":             "currentclub",
		"currentteam":      "currentclub",
		"pos":              "position",
		"preferredposition": "position",
		"dob":              "dateofbirth",
		"birthdate":        "dateofbirth",
		"born":             "dateofbirth",
		"country":          "nationality",
		"nation":           "nationality",
		"foot":             "preferredfoot",
		"number":           "clubnumber",
		"shirtnumber":      "clubnumber",
		"rating":           "scoutrating",
		"playerid":         "externalid",
	}
	out := make(map[int]string, len(hdr))
	for i, h := range hdr {
		key := foldKey(h)
		if a, ok := aliases[key]; ok {
			key = a
		}
		out[i] = key
	}
	return out
}

// foldKey lowercases and keeps letters/digits only, folding diacritics so
// headers like "Pelaajan nimi" or "Tävling" normalize predictably.
func foldKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case 'ä', 'å':
			r = 'a'
		case 'ö':
			r = 'o'
		case 'é', 'è':
			r = 'e'
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func rowToPlayer(headers map[int]string, row []string) (Player, error) {
	var p Player
	for i, cell := range row {
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		switch headers[i] {
		case "name":
			p.Name = v
		case "externalid":
			p.ExternalID = &v
		case "currentclub":
			p.CurrentClub = &v
		case "nationality":
			p.Nationality = &v
		case "dateofbirth":
			p.DateOfBirth = &v
		case "position":
			p.Position = &v
		case "secondarypositions":
			p.SecondaryPositions = splitList(v)
		case "preferredfoot":
			p.PreferredFoot = &v
		case "clubnumber":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				p.ClubNumber = &n
			}
		case "height":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				p.Height = &n
			}
		case "weight":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				p.Weight = &n
			}
		case "scoutrating":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				p.ScoutRating = &n
			}
		case "transfermarkturl":
			p.TransfermarktURL = &v
		case "notes":
			p.Notes = &v
		case "tags":
			p.Tags = splitList(v)
		}
	}
	if p.Name == "" {
		return Player{}, fmt.Errorf("missing player name")
	}
	return p, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
