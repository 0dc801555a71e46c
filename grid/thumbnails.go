package grid

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/FyshOS/fancyfs"
	"golang.org/x/image/draw"
)

// Disk cache budget. Cleanup trims the oldest entries down to 80% of both
// limits once either is exceeded.
var (
	MaxCacheSize  int64 = 500 * 1024 * 1024 // 500MB
	MaxCacheFiles int   = 10000
)

const maxPendingRequests = 100

type thumbnailRequest struct {
	id   string
	size int
	done func(id string, size int, img image.Image)
}

// ThumbnailLoader produces scaled bitmaps for file-path identifiers. It
// keeps a memory cache, a persistent disk cache keyed by path, mtime, size
// and a content sample, and a small worker pool draining a bounded LIFO
// queue so the freshest requests win during fast scrolling. Completion is
// delivered on the UI thread.
//
// Directories are served through their fancy folder background when one is
// configured; plain directories and unsupported formats complete silently,
// leaving the caller's placeholder in place.
type ThumbnailLoader struct {
	cache    sync.Map // "path|size" -> image.Image
	requests []thumbnailRequest
	reqLock  sync.Mutex
	reqCond  *sync.Cond
	cacheDir string
	closed   bool
}

// NewThumbnailLoader starts workers goroutines serving thumbnail requests.
// cacheDir may be empty to disable the disk cache.
func NewThumbnailLoader(cacheDir string, workers int) (*ThumbnailLoader, error) {
	if workers < 1 {
		workers = 4
	}

	l := &ThumbnailLoader{
		requests: make([]thumbnailRequest, 0, maxPendingRequests),
		cacheDir: cacheDir,
	}
	l.reqCond = sync.NewCond(&l.reqLock)

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return nil, fmt.Errorf("thumbnail cache dir: %w", err)
		}
		go l.cleanupCache()
	}

	for i := 0; i < workers; i++ {
		go l.worker()
	}
	return l, nil
}

// Close stops the workers. Pending requests are dropped without completion.
func (l *ThumbnailLoader) Close() {
	l.reqLock.Lock()
	l.closed = true
	l.requests = nil
	l.reqCond.Broadcast()
	l.reqLock.Unlock()
}

var _ ThumbnailProvider = (*ThumbnailLoader)(nil)

// RequestThumbnail returns the bitmap straight away on a memory-cache hit.
// Otherwise the request is queued and done is invoked on the UI thread once
// the bitmap exists. Unsupported identifiers return nil and never complete.
func (l *ThumbnailLoader) RequestThumbnail(id string, size int, done func(id string, size int, img image.Image)) image.Image {
	if size <= 0 || !l.supports(id) {
		return nil
	}

	if cached, ok := l.cache.Load(memKey(id, size)); ok {
		return cached.(image.Image)
	}

	l.reqLock.Lock()
	defer l.reqLock.Unlock()
	if l.closed {
		return nil
	}
	// Drop the oldest request when full; keeps the pending set small and
	// biased toward what is on screen right now.
	if len(l.requests) >= maxPendingRequests {
		l.requests = l.requests[1:]
	}
	l.requests = append(l.requests, thumbnailRequest{id: id, size: size, done: done})
	l.reqCond.Signal()
	return nil
}

// supports reports whether the identifier can ever produce pixels: a local
// path with a known image extension, or a path without extension that may
// be a folder.
func (l *ThumbnailLoader) supports(id string) bool {
	if !pathLike(id) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(id))
	return ext == "" || isSupportedImage(ext)
}

func isSupportedImage(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}

func memKey(id string, size int) string {
	return fmt.Sprintf("%s|%d", id, size)
}

func (l *ThumbnailLoader) worker() {
	for {
		l.reqLock.Lock()
		for len(l.requests) == 0 && !l.closed {
			l.reqCond.Wait()
		}
		if l.closed {
			l.reqLock.Unlock()
			return
		}
		// Pop the newest request (LIFO).
		lastIdx := len(l.requests) - 1
		req := l.requests[lastIdx]
		l.requests = l.requests[:lastIdx]
		l.reqLock.Unlock()

		img := l.produce(req.id, req.size)
		if img == nil || req.done == nil {
			continue
		}
		fyne.Do(func() {
			req.done(req.id, req.size, img)
		})
	}
}

// produce resolves one request, consulting the caches first. Returns nil on
// any failure; the grid renders a placeholder and does not retry.
func (l *ThumbnailLoader) produce(id string, size int) image.Image {
	if cached, ok := l.cache.Load(memKey(id, size)); ok {
		return cached.(image.Image)
	}

	key, err := l.generateCacheKey(id, size)
	if err != nil {
		return nil
	}

	if l.cacheDir != "" {
		cachePath := filepath.Join(l.cacheDir, key+".jpg")
		if img, err := loadImage(cachePath); err == nil {
			l.cache.Store(memKey(id, size), img)
			return img
		}
	}

	src := l.loadSource(id)
	if src == nil {
		return nil
	}

	dst := scaleContain(src, size)
	l.cache.Store(memKey(id, size), dst)

	if l.cacheDir != "" {
		cachePath := filepath.Join(l.cacheDir, key+".jpg")
		f, err := os.Create(cachePath)
		if err != nil {
			fyne.LogError("could not write thumbnail cache entry", err)
			return dst
		}
		_ = jpeg.Encode(f, dst, &jpeg.Options{Quality: 85})
		f.Close()
	}
	return dst
}

// loadSource decodes the raw pixels for an identifier: the image file
// itself, or a folder's fancy background.
func (l *ThumbnailLoader) loadSource(id string) image.Image {
	info, err := os.Stat(id)
	if err != nil {
		return nil
	}

	if info.IsDir() {
		details, err := fancyfs.DetailsForFolder(storage.NewFileURI(id))
		if err != nil || details == nil {
			return nil
		}
		if details.BackgroundURI != nil {
			if img, err := loadImage(details.BackgroundURI.Path()); err == nil {
				return img
			}
		}
		if details.BackgroundResource != nil {
			if img, _, err := image.Decode(bytes.NewReader(details.BackgroundResource.Content())); err == nil {
				return img
			}
		}
		return nil
	}

	if !isSupportedImage(strings.ToLower(filepath.Ext(id))) {
		return nil
	}
	img, err := loadImage(id)
	if err != nil {
		return nil
	}
	return img
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// scaleContain fits src into a size x size square, preserving aspect ratio
// and centering the result.
func scaleContain(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	if srcW == 0 || srcH == 0 {
		return dst
	}

	var scaledW, scaledH int
	ratio := float64(srcW) / float64(srcH)
	if ratio > 1 {
		scaledW = size
		scaledH = int(float64(size) / ratio)
	} else {
		scaledH = size
		scaledW = int(float64(size) * ratio)
	}

	xBase := (size - scaledW) / 2
	yBase := (size - scaledH) / 2
	targetRect := image.Rect(xBase, yBase, xBase+scaledW, yBase+scaledH)

	// ApproxBiLinear trades a little quality for speed, which is the right
	// call for thumbnails.
	draw.ApproxBiLinear.Scale(dst, targetRect, src, srcBounds, draw.Over, nil)
	return dst
}

// generateCacheKey hashes the path, the file identity and a content sample
// so edited files miss the stale cache entry.
func (l *ThumbnailLoader) generateCacheKey(path string, size int) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(absPath))
	h.Write([]byte(info.ModTime().String()))
	fmt.Fprintf(h, "%d|%d", info.Size(), size)

	if !info.IsDir() {
		if f, err := os.Open(absPath); err == nil {
			buf := make([]byte, 32*1024)
			n, _ := f.Read(buf)
			f.Close()
			h.Write(buf[:n])
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (l *ThumbnailLoader) cleanupCache() {
	if l.cacheDir == "" {
		return
	}

	files, err := os.ReadDir(l.cacheDir)
	if err != nil {
		return
	}

	type fileInfo struct {
		name string
		size int64
		time time.Time
	}

	var cachedFiles []fileInfo
	var totalSize int64

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".jpg" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		cachedFiles = append(cachedFiles, fileInfo{
			name: f.Name(),
			size: info.Size(),
			time: info.ModTime(),
		})
		totalSize += info.Size()
	}

	if totalSize <= MaxCacheSize && len(cachedFiles) <= MaxCacheFiles {
		return
	}

	// Oldest first.
	sort.Slice(cachedFiles, func(i, j int) bool {
		return cachedFiles[i].time.Before(cachedFiles[j].time)
	})

	for _, f := range cachedFiles {
		if totalSize <= int64(float64(MaxCacheSize)*0.8) && len(cachedFiles) <= int(float64(MaxCacheFiles)*0.8) {
			break
		}
		_ = os.Remove(filepath.Join(l.cacheDir, f.name))
		totalSize -= f.size
		cachedFiles = cachedFiles[1:]
	}
}
