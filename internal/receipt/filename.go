package receipt

import (
	"fmt"
	"strings"
	"time"
)

// unsafeChars replaces filesystem-unsafe characters with a hyphen.
var unsafeChars = strings.NewReplacer(
	"/", "-", "\\", "-", "?", "-", "%", "-", "*", "-",
	":", "-", "|", "-", "\"", "-", "<", "-", ">", "-",
)

// FileName synthesizes the receipt file name from the generation time
// and the socio identity: "Env. DD_MM_YY HH:MM socio CODE NAME.pdf".
// Only the code and name fields are sanitized; the timestamp keeps its
// colon.
func FileName(t time.Time, socioCodigo, socioNombre string) string {
	return fmt.Sprintf("Env. %s socio %s %s.pdf",
		t.Format("02_01_06 15:04"),
		unsafeChars.Replace(socioCodigo),
		unsafeChars.Replace(socioNombre))
}
