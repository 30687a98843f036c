// Command upload pushes a single photo through the full ingestion pipeline
// against a running aperture server: metadata extraction, placeholder
// generation, pre-signed storage upload and photo creation.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aperturelog/aperture/infra"
	"github.com/aperturelog/aperture/ingest"
)

func main() {
	var (
		server      = flag.String("server", "http://localhost:8080", "aperture server base URL")
		email       = flag.String("email", "", "account email")
		password    = flag.String("password", "", "account password")
		file        = flag.String("file", "", "path to the image file")
		folder      = flag.String("folder", "photos", "destination storage folder")
		title       = flag.String("title", "", "photo title (defaults to the file name)")
		description = flag.String("description", "", "photo description")
		visibility  = flag.String("visibility", "private", "public or private")
		favorite    = flag.Bool("favorite", false, "mark as favorite")
		sizeLimit   = flag.Int64("size-limit", ingest.DefaultSizeLimit, "upload size limit in bytes")
	)
	flag.Parse()

	if *file == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	client := &apiClient{base: *server, http: &http.Client{Timeout: 60 * time.Second}}

	if err := client.login(ctx, *email, *password); err != nil {
		log.Fatalf("login failed: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read file: %v", err)
	}

	exifData := ingest.ExtractExif(bytes.NewReader(data))
	if exifData == nil {
		log.Println("no EXIF metadata found, continuing without it")
	}

	info, err := ingest.GeneratePlaceholder(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("placeholder generation failed: %v", err)
	}

	uploader := ingest.NewUploader(*sizeLimit)
	result, err := uploader.Upload(ctx, ingest.File{
		Name:        filepath.Base(*file),
		ContentType: http.DetectContentType(data),
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}, *folder, func(fraction float64) {
		fmt.Fprintf(os.Stderr, "\ruploading... %3.0f%%", fraction*100)
	}, client.getUploadURL)
	if err != nil {
		log.Fatalf("\nupload failed: %v", err)
	}
	fmt.Fprintln(os.Stderr)

	photoTitle := *title
	if photoTitle == "" {
		photoTitle = filepath.Base(*file)
	}

	payload := map[string]interface{}{
		"title":        photoTitle,
		"description":  *description,
		"url":          result.PublicURL,
		"width":        info.Width,
		"height":       info.Height,
		"aspect_ratio": info.AspectRatio,
		"blur_data":    info.Placeholder,
		"visibility":   *visibility,
		"is_favorite":  *favorite,
	}
	if exifData != nil {
		mergeExif(payload, exifData)
		if exifData.Latitude != nil && exifData.Longitude != nil {
			if addr, err := client.reverseGeocode(ctx, *exifData.Longitude, *exifData.Latitude); err != nil {
				log.Printf("reverse geocoding failed, photo will be ungrouped: %v", err)
			} else {
				mergeAddress(payload, addr)
			}
		}
	}

	photo, err := client.createPhoto(ctx, payload)
	if err != nil {
		log.Fatalf("create photo failed: %v", err)
	}

	fmt.Printf("created photo %s\n%s\n", photo["id"], result.PublicURL)
}

func mergeExif(payload map[string]interface{}, exifData *ingest.ExifData) {
	raw, err := json.Marshal(exifData)
	if err == nil {
		payload["exif"] = json.RawMessage(raw)
	}

	setIfPresent(payload, "make", exifData.Make)
	setIfPresent(payload, "model", exifData.Model)
	setIfPresent(payload, "lens_model", exifData.LensModel)
	setIfPresent(payload, "focal_length", exifData.FocalLength)
	setIfPresent(payload, "focal_length_35mm", exifData.FocalLength35mm)
	setIfPresent(payload, "f_number", exifData.FNumber)
	setIfPresent(payload, "iso", exifData.ISO)
	setIfPresent(payload, "exposure_time", exifData.ExposureTime)
	setIfPresent(payload, "exposure_compensation", exifData.ExposureCompensation)
	setIfPresent(payload, "latitude", exifData.Latitude)
	setIfPresent(payload, "longitude", exifData.Longitude)
	setIfPresent(payload, "gps_altitude", exifData.GPSAltitude)
	setIfPresent(payload, "datetime_original", exifData.DateTimeOriginal)
}

func mergeAddress(payload map[string]interface{}, addr *infra.Address) {
	if addr.Country != "" {
		payload["country"] = addr.Country
	}
	if addr.CountryCode != "" {
		payload["country_code"] = addr.CountryCode
	}
	if addr.Region != "" {
		payload["region"] = addr.Region
	}
	if addr.City != "" {
		payload["city"] = addr.City
	}
	if addr.District != "" {
		payload["district"] = addr.District
	}
	if addr.FullAddress != "" {
		payload["full_address"] = addr.FullAddress
	}
	if addr.PlaceFormatted != "" {
		payload["place_formatted"] = addr.PlaceFormatted
	}
}

func setIfPresent[T any](payload map[string]interface{}, key string, value *T) {
	if value != nil {
		payload[key] = *value
	}
}

type apiClient struct {
	base  string
	http  *http.Client
	token string
}

type envelope struct {
	Status int             `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, raw)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, env.Error)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *apiClient) login(ctx context.Context, email, password string) error {
	var data struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &data)
	if err != nil {
		return err
	}
	c.token = data.AccessToken
	return nil
}

func (c *apiClient) getUploadURL(ctx context.Context, filename, contentType, folder string, size int64) (*ingest.SignedUpload, error) {
	var signed ingest.SignedUpload
	err := c.do(ctx, http.MethodPost, "/api/v1/uploads/sign", map[string]interface{}{
		"filename":     filename,
		"content_type": contentType,
		"folder":       folder,
		"size":         size,
	}, &signed)
	if err != nil {
		return nil, err
	}
	return &signed, nil
}

func (c *apiClient) reverseGeocode(ctx context.Context, longitude, latitude float64) (*infra.Address, error) {
	var addr infra.Address
	path := "/api/v1/geocode/reverse?longitude=" +
		strconv.FormatFloat(longitude, 'f', -1, 64) +
		"&latitude=" + strconv.FormatFloat(latitude, 'f', -1, 64)
	if err := c.do(ctx, http.MethodGet, path, nil, &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

func (c *apiClient) createPhoto(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	var photo map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/api/v1/photos/", payload, &photo); err != nil {
		return nil, err
	}
	return photo, nil
}
