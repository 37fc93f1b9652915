package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/bobmcallan/dart-portal/internal/models"
)

const maxCorpCodeArchive = 64 << 20

// ErrNoCorpCodeFile is returned when the archive holds no XML listing.
var ErrNoCorpCodeFile = errors.New("corp code archive contains no xml file")

// DownloadCorpCodes fetches the corporation directory archive (corpCode.xml
// endpoint, delivered as a ZIP). An error status answered in place of the
// archive is returned as *APIError.
func (c *Client) DownloadCorpCodes(ctx context.Context) ([]byte, error) {
	resp, err := c.get(ctx, "corpCode.xml", url.Values{})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCorpCodeArchive))
	if err != nil {
		return nil, c.wrapTransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opendart returned HTTP %d", resp.StatusCode)
	}

	if !bytes.HasPrefix(data, []byte("PK")) {
		var result struct {
			Status  string `xml:"status" json:"status"`
			Message string `xml:"message" json:"message"`
		}
		if xml.Unmarshal(data, &result) == nil && result.Status != "" {
			if _, err := checkStatus(result.Status, result.Message); err != nil {
				return nil, err
			}
		}
		return nil, fmt.Errorf("unexpected corp code payload (%d bytes)", len(data))
	}

	c.logger.Info().Int64("bytes", int64(len(data))).Msg("corp code archive downloaded")
	return data, nil
}

// ParseCorpCodeArchive extracts the first .xml entry of the archive and
// parses it with ParseCorpCodes.
func ParseCorpCodeArchive(data []byte) ([]models.Company, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open corp code archive: %w", err)
	}
	for _, f := range zr.File {
		if !strings.EqualFold(path.Ext(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		defer rc.Close()
		return ParseCorpCodes(rc)
	}
	return nil, ErrNoCorpCodeFile
}

// ParseCorpCodes streams a CORPCODE.xml document and returns one Company per
// <list> element, with fields trimmed. The root element name is not checked.
func ParseCorpCodes(r io.Reader) ([]models.Company, error) {
	dec := xml.NewDecoder(r)
	var companies []models.Company
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse corp codes: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "list" {
			continue
		}
		var company models.Company
		if err := dec.DecodeElement(&company, &start); err != nil {
			return nil, fmt.Errorf("failed to decode corp code entry: %w", err)
		}
		company = company.Normalize()
		if company.CorpCode == "" {
			continue
		}
		companies = append(companies, company)
	}
	return companies, nil
}

// ParseCorpCodeData parses either the downloaded ZIP archive or an already
// extracted CORPCODE.xml.
func ParseCorpCodeData(data []byte) ([]models.Company, error) {
	if bytes.HasPrefix(data, []byte("PK")) {
		return ParseCorpCodeArchive(data)
	}
	return ParseCorpCodes(bytes.NewReader(data))
}
