package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestParseLevel_Basic(t *testing.T) {
	level, err := ParseLevel("#####\n#@$.#\n#####")
	if err != nil {
		t.Fatalf("Failed to parse level: %v", err)
	}

	if level.Width != 5 || level.Height != 3 {
		t.Errorf("Expected 5x3 level, got %dx%d", level.Width, level.Height)
	}
	if level.Player != (Position{X: 1, Y: 1}) {
		t.Errorf("Expected player at (1,1), got %+v", level.Player)
	}
	if got := level.Grid.Rows()[1]; got != "#@$.#" {
		t.Errorf("Expected middle row '#@$.#', got %q", got)
	}
	if level.Title != "" {
		t.Errorf("Expected no title, got %q", level.Title)
	}
}

func TestParseLevel_PadsShortRows(t *testing.T) {
	level, err := ParseLevel("#####\n#@$.#\n###")
	if err != nil {
		t.Fatalf("Failed to parse level: %v", err)
	}

	rows := level.Grid.Rows()
	if rows[2] != "###  " {
		t.Errorf("Expected padded row '###  ', got %q", rows[2])
	}
	for y, row := range level.Grid {
		if len(row) != level.Width {
			t.Errorf("Row %d has width %d, expected %d", y, len(row), level.Width)
		}
	}
}

func TestParseLevel_Metadata(t *testing.T) {
	text := "\r\n\r\nTitle: Warehouse\r\n#####\r\n#@$.#\r\nTitle: Ignored\r\n#####\r\n\r\n"
	level, err := ParseLevel(text)
	if err != nil {
		t.Fatalf("Failed to parse level: %v", err)
	}

	if level.Title != "Warehouse" {
		t.Errorf("Expected title 'Warehouse', got %q", level.Title)
	}
	if level.Height != 3 {
		t.Errorf("Expected 3 rows after dropping metadata and blanks, got %d", level.Height)
	}
	for _, row := range level.Grid.Rows() {
		if strings.ContainsRune(row, '\r') {
			t.Errorf("Row %q still contains a carriage return", row)
		}
	}
}

func TestParseLevel_FloorAliases(t *testing.T) {
	level, err := ParseLevel("#######\n#@-$_.#\n#######")
	if err != nil {
		t.Fatalf("Failed to parse level: %v", err)
	}
	if got := level.Grid.Rows()[1]; got != "#@ $ .#" {
		t.Errorf("Expected aliases to become floor, got %q", got)
	}
}

func TestParseLevel_PlayerOnGoal(t *testing.T) {
	level, err := ParseLevel("####\n#+$#\n####")
	if err != nil {
		t.Fatalf("Failed to parse level: %v", err)
	}
	if level.Player != (Position{X: 1, Y: 1}) {
		t.Errorf("Expected player at (1,1), got %+v", level.Player)
	}
}

func TestParseLevel_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
	}{
		{"empty text", "", 0},
		{"only blank lines", "\n\n  \n", 0},
		{"only a title", "Title: Nothing", 0},
		{"no player", "#####\n# $.#\n#####", 0},
		{"two players", "#####\n#@$@#\n#####", 2},
		{"player and player on goal", "#####\n#@$+#\n#####", 2},
		{"unknown symbol", "#####\n#@X.#\n#####", 2},
		{"unknown symbol after title", "Title: T\n#####\n#@$.#\n#?###", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLevel(tt.text)
			if err == nil {
				t.Fatal("Expected error for malformed level")
			}

			var malformed *MalformedLevelError
			if !errors.As(err, &malformed) {
				t.Fatalf("Expected MalformedLevelError, got %T: %v", err, err)
			}
			if malformed.Line != tt.wantLine {
				t.Errorf("Expected line %d, got %d (%v)", tt.wantLine, malformed.Line, err)
			}
		})
	}
}

func TestParseLevel_LargeBoard(t *testing.T) {
	const width, height = 120, 80
	rows := make([]string, height)
	rows[0] = strings.Repeat("#", width)
	rows[height-1] = rows[0]
	for y := 1; y < height-1; y++ {
		rows[y] = "#" + strings.Repeat(" ", width-2) + "#"
	}
	rows[1] = "#@$." + strings.Repeat(" ", width-5) + "#"

	level, err := ParseLevel(strings.Join(rows, "\n"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(level.Grid) != height {
		t.Errorf("Expected %d rows, got %d", height, len(level.Grid))
	}
	if len(level.Grid[0]) != width {
		t.Errorf("Expected width %d, got %d", width, len(level.Grid[0]))
	}
}

func TestFindPlayer(t *testing.T) {
	pos, err := FindPlayer(GridFromRows([]string{"####", "# +#", "####"}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pos != (Position{X: 2, Y: 1}) {
		t.Errorf("Expected (2,1), got %+v", pos)
	}

	if _, err := FindPlayer(GridFromRows([]string{"#@@#"})); err == nil {
		t.Error("Expected error for two players")
	}
	if _, err := FindPlayer(GridFromRows([]string{"#  #"})); err == nil {
		t.Error("Expected error for missing player")
	}
}
