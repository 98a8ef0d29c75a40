package project

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/imdix/internal/files/filesystem"
	"github.com/vvka-141/imdix/internal/logging"
	"github.com/vvka-141/imdix/pkg/imdix"
)

// Sidecar extensions and folder names of the project layout.
const (
	ProjectExtension = ".project"
	SessionExtension = ".session"
	PersonExtension  = ".person"
	MetaExtension    = ".meta"

	SessionsFolderName = "Sessions"
	PeopleFolderName   = "People"
)

// Reader loads project folders.
type Reader struct {
	fs        filesystem.Reader
	languages *Languages
	logger    imdix.Logger
}

// NewReader creates a reader over fsys. Language names declared by a project
// are added to languages, which also becomes the project's lookup.
func NewReader(fsys filesystem.Reader, languages *Languages) *Reader {
	if fsys == nil {
		panic("project.NewReader: filesystem cannot be nil")
	}
	if languages == nil {
		languages = NewLanguages()
	}
	return &Reader{fs: fsys, languages: languages, logger: logging.NewNullLogger()}
}

// WithLogger returns a copy of the reader that reports skipped folders to logger.
func (r *Reader) WithLogger(logger imdix.Logger) *Reader {
	clone := *r
	if logger != nil {
		clone.logger = logger
	}
	return &clone
}

// Load reads the project rooted at dir.
func (r *Reader) Load(dir string) (*imdix.Project, error) {
	dir = filepath.Clean(dir)
	info, err := r.fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, imdix.ErrProjectNotFound)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", dir, imdix.ErrProjectNotFound)
	}

	name := filepath.Base(dir)
	projectFile, err := r.findSidecar(dir, name, ProjectExtension)
	if err != nil {
		return nil, err
	}
	if projectFile == "" {
		return nil, fmt.Errorf("no %s file in %s: %w", ProjectExtension, dir, imdix.ErrProjectNotFound)
	}

	meta, err := r.readSidecar(projectFile)
	if err != nil {
		return nil, err
	}
	for code, languageName := range meta.LanguageNames {
		r.languages.Add(code, "", languageName)
	}

	p := &imdix.Project{
		Folder: imdix.Folder{
			Kind:      imdix.KindProject,
			ID:        folderID(meta, name),
			Directory: dir,
			Fields:    meta.Fields,
		},
		DirectoryName:          name,
		MetadataLanguages:      meta.MetadataLanguages,
		VocabularyTranslations: meta.VocabularyTranslations,
		Languages:              r.languages,
	}

	if p.Sessions, err = r.readFolders(filepath.Join(dir, SessionsFolderName), SessionExtension, imdix.KindSession); err != nil {
		return nil, err
	}
	if p.Persons, err = r.readFolders(filepath.Join(dir, PeopleFolderName), PersonExtension, imdix.KindPerson); err != nil {
		return nil, err
	}
	if p.OtherDocuments, err = r.readDocuments(dir, imdix.OtherDocumentsFolderName); err != nil {
		return nil, err
	}
	if p.DescriptionDocuments, err = r.readDocuments(dir, imdix.DescriptionDocumentsFolderName); err != nil {
		return nil, err
	}

	r.logger.Verbose("Loaded project %s: %d session(s), %d person(s)", p.ID, len(p.Sessions), len(p.Persons))
	return p, nil
}

// findSidecar returns <dir>/<name><ext>, else the first *<ext> in dir, else "".
func (r *Reader) findSidecar(dir, name, ext string) (string, error) {
	preferred := filepath.Join(dir, name+ext)
	if info, err := r.fs.Stat(preferred); err == nil && !info.IsDir() {
		return preferred, nil
	}
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && !hidden(e.Name()) && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", nil
}

func (r *Reader) readSidecar(path string) (*sidecar, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parseSidecar(path, data)
}

// readFolders loads every subfolder of parent that carries a sidecar with
// the given extension. A missing parent yields no folders.
func (r *Reader) readFolders(parent, ext string, kind imdix.FolderKind) ([]*imdix.Folder, error) {
	entries, err := r.fs.ReadDir(parent)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", parent, err)
	}

	var folders []*imdix.Folder
	for _, e := range entries {
		if !e.IsDir() || hidden(e.Name()) {
			continue
		}
		dir := filepath.Join(parent, e.Name())
		sidecarPath, err := r.findSidecar(dir, e.Name(), ext)
		if err != nil {
			return nil, err
		}
		if sidecarPath == "" {
			r.logger.Warn("Skipping %s: no %s file", dir, ext)
			continue
		}
		meta, err := r.readSidecar(sidecarPath)
		if err != nil {
			return nil, err
		}
		files, err := r.readFiles(dir, filepath.Base(sidecarPath))
		if err != nil {
			return nil, err
		}
		folders = append(folders, &imdix.Folder{
			Kind:          kind,
			ID:            folderID(meta, e.Name()),
			Directory:     dir,
			Fields:        meta.Fields,
			Files:         files,
			Contributions: meta.contributions(),
			Languages:     meta.spokenLanguages(),
		})
	}
	return folders, nil
}

// readDocuments loads a project-level document folder. The folder is
// returned even when absent so callers can treat it as empty.
func (r *Reader) readDocuments(projectDir, name string) (*imdix.Folder, error) {
	dir := filepath.Join(projectDir, name)
	folder := &imdix.Folder{
		Kind:      imdix.KindDocuments,
		ID:        name,
		Directory: dir,
		Fields:    map[string]imdix.Value{},
	}
	files, err := r.readFiles(dir, "")
	if errors.Is(err, fs.ErrNotExist) {
		return folder, nil
	}
	if err != nil {
		return nil, err
	}
	folder.Files = files
	return folder, nil
}

// readFiles lists the regular files of dir, skipping hidden files, the
// folder's own sidecar and .meta sidecars, which are applied to their files.
func (r *Reader) readFiles(dir, skip string) ([]*imdix.File, error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	present := make(map[string]fs.FileInfo)
	metas := make(map[string]string)
	for _, e := range entries {
		n := e.Name()
		switch {
		case e.IsDir(), hidden(n), n == skip:
		case strings.EqualFold(filepath.Ext(n), MetaExtension):
			metas[strings.TrimSuffix(n, filepath.Ext(n))] = filepath.Join(dir, n)
		default:
			present[n] = e
		}
	}

	var files []*imdix.File
	for n, info := range present {
		files = append(files, &imdix.File{Path: filepath.Join(dir, n), Size: info.Size()})
	}
	for companion := range metas {
		if _, ok := present[companion]; !ok {
			files = append(files, &imdix.File{Path: filepath.Join(dir, companion), Missing: true})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	for _, f := range files {
		metaPath, ok := metas[f.Name()]
		if !ok {
			continue
		}
		meta, err := r.readSidecar(metaPath)
		if err != nil {
			return nil, err
		}
		f.Fields = meta.Fields
		f.Tags = meta.Tags
		f.Contributions = meta.contributions()
		f.ExportAs = strings.TrimSpace(meta.ExportAs)
		if f.Missing {
			r.logger.Warn("%s describes a file that is not on disk", metaPath)
		}
	}
	return files, nil
}

func folderID(meta *sidecar, fallback string) string {
	if id := meta.Fields["id"].Text(); id != "" {
		return id
	}
	return fallback
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
