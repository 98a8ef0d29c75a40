package fields

const vocabularyBase = "http://www.mpi.nl/IMDI/Schema/"

func vocab(name string, t VocabularyType) *Vocab {
	return &Vocab{URL: vocabularyBase + name + ".xml", Type: t}
}

// IMDI controlled vocabularies referenced by the generator.
var (
	Continents            = vocab("Continents", ClosedVocabulary)
	Countries             = vocab("Countries", ClosedVocabulary)
	Genre                 = vocab("Content-Genre", OpenVocabulary)
	SubGenre              = vocab("Content-SubGenre", OpenVocabularyList)
	Task                  = vocab("Content-Task", OpenVocabulary)
	Modalities            = vocab("Content-Modalities", OpenVocabularyList)
	Subject               = vocab("Content-Subject", OpenVocabularyList)
	Interactivity         = vocab("Content-Interactivity", ClosedVocabulary)
	PlanningType          = vocab("Content-PlanningType", ClosedVocabulary)
	Involvement           = vocab("Content-Involvement", ClosedVocabulary)
	SocialContext         = vocab("Content-SocialContext", ClosedVocabulary)
	EventStructure        = vocab("Content-EventStructure", ClosedVocabulary)
	Channel               = vocab("Content-Channel", ClosedVocabulary)
	Languages             = vocab("MPI-Languages", OpenVocabulary)
	ActorRole             = vocab("Actor-Role", OpenVocabularyList)
	FamilySocialRole      = vocab("Actor-FamilySocialRole", OpenVocabularyList)
	Sex                   = vocab("Actor-Sex", ClosedVocabulary)
	Boolean               = vocab("Boolean", ClosedVocabulary)
	MediaFileType         = vocab("MediaFile-Type", ClosedVocabulary)
	MediaFileFormat       = vocab("MediaFile-Format", OpenVocabulary)
	Quality               = vocab("Quality", ClosedVocabulary)
	WrittenResourceType   = vocab("WrittenResource-Type", OpenVocabulary)
	WrittenResourceSub    = vocab("WrittenResource-SubType", OpenVocabularyList)
	WrittenResourceFmt    = vocab("WrittenResource-Format", OpenVocabulary)
	Derivation            = vocab("WrittenResource-Derivation", ClosedVocabulary)
	ValidationType        = vocab("Validation-Type", ClosedVocabulary)
	ValidationMethodology = vocab("Validation-Methodology", ClosedVocabulary)
)

const unspecified = "Unspecified"

// Session returns the registry for session folders.
func Session() *Registry { return sessionRegistry }

// Person returns the registry for person folders.
func Person() *Registry { return personRegistry }

// Project returns the registry for the project folder.
func Project() *Registry { return projectRegistry }

// File returns the registry for per-file descriptors.
func File() *Registry { return fileRegistry }

var sessionRegistry = NewRegistry("session",
	Definition{Key: "id", Element: "Name", Required: true},
	Definition{Key: "title", Element: "Title", Required: true, Multilingual: true},
	Definition{Key: "date", Element: "Date", Required: true, Default: unspecified},
	Definition{Key: "description", Element: "Description", Multilingual: true, Repeatable: true},
	Definition{Key: "locationContinent", Element: "Continent", Required: true, Default: unspecified, Vocabulary: Continents},
	Definition{Key: "locationCountry", Element: "Country", Required: true, Default: unspecified, Vocabulary: Countries},
	Definition{Key: "locationRegion", Element: "Region"},
	Definition{Key: "locationAddress", Element: "Address"},
	Definition{Key: "location", Element: "Address", Migrated: true},
	Definition{Key: "genre", Element: "Genre", Required: true, Default: unspecified, Vocabulary: Genre, Multilingual: true},
	Definition{Key: "subgenre", Element: "SubGenre", Required: true, Default: unspecified, Vocabulary: SubGenre, Multilingual: true},
	Definition{Key: "task", Element: "Task", Required: true, Default: unspecified, Vocabulary: Task},
	Definition{Key: "modalities", Element: "Modalities", Required: true, Default: unspecified, Vocabulary: Modalities},
	Definition{Key: "topic", Element: "Subject", Required: true, Default: unspecified, Vocabulary: Subject},
	Definition{Key: "interactivity", Element: "Interactivity", Required: true, Default: unspecified, Vocabulary: Interactivity},
	Definition{Key: "planningType", Element: "PlanningType", Required: true, Default: unspecified, Vocabulary: PlanningType},
	Definition{Key: "involvement", Element: "Involvement", Required: true, Default: unspecified, Vocabulary: Involvement},
	Definition{Key: "socialContext", Element: "SocialContext", Required: true, Default: unspecified, Vocabulary: SocialContext},
	Definition{Key: "eventStructure", Element: "EventStructure", Required: true, Default: unspecified, Vocabulary: EventStructure},
	Definition{Key: "channel", Element: "Channel", Required: true, Default: unspecified, Vocabulary: Channel},
	Definition{Key: "languages", Element: "Language"},
	Definition{Key: "workingLanguages", Element: "Language"},
	Definition{Key: "keyword", Element: "Key"},
	Definition{Key: "access", Element: "Availability", Required: true},
	Definition{Key: "accessDescription", Element: "Description", Multilingual: true, Repeatable: true},
	Definition{Key: "contentDescription", Element: "Description", Multilingual: true, Repeatable: true},
	Definition{Key: "participants", Element: "Actor", Migrated: true},
)

var personRegistry = NewRegistry("person",
	Definition{Key: "name", Element: "Name", Required: true},
	Definition{Key: "fullName", Element: "FullName", Required: true},
	Definition{Key: "code", Element: "Code", Required: true},
	Definition{Key: "familySocialRole", Element: "FamilySocialRole", Required: true, Default: unspecified, Vocabulary: FamilySocialRole},
	Definition{Key: "ethnicGroup", Element: "EthnicGroup", Required: true},
	Definition{Key: "birthYear", Element: "BirthDate", Required: true, Default: unspecified},
	Definition{Key: "gender", Element: "Sex", Required: true, Default: unspecified, Vocabulary: Sex},
	Definition{Key: "education", Element: "Education", Required: true},
	Definition{Key: "anonymized", Element: "Anonymized", Required: true, Default: "false", Vocabulary: Boolean},
	Definition{Key: "howToContact", Element: "Address"},
	Definition{Key: "description", Element: "Description", Multilingual: true, Repeatable: true},
	Definition{Key: "primaryLanguage", Element: "Language", Migrated: true},
	Definition{Key: "fathersLanguage", Element: "Language", Migrated: true},
	Definition{Key: "mothersLanguage", Element: "Language", Migrated: true},
	Definition{Key: "otherLanguage0", Element: "Language", Migrated: true},
	Definition{Key: "otherLanguage1", Element: "Language", Migrated: true},
	Definition{Key: "otherLanguage2", Element: "Language", Migrated: true},
	Definition{Key: "otherLanguage3", Element: "Language", Migrated: true},
)

var projectRegistry = NewRegistry("project",
	Definition{Key: "id", Element: "Name", Required: true},
	Definition{Key: "title", Element: "Title", Required: true, Multilingual: true},
	Definition{Key: "projectDescription", Element: "Description", Multilingual: true, Repeatable: true},
	Definition{Key: "grantId", Element: "Id", Required: true},
	Definition{Key: "fundingProjectTitle", Element: "Title", Required: true},
	Definition{Key: "contactPerson", Element: "Name", Required: true},
	Definition{Key: "contactAffiliation", Element: "Organisation"},
	Definition{Key: "contactEmail", Element: "Email"},
	Definition{Key: "continent", Element: "Continent", Required: true, Default: unspecified, Vocabulary: Continents},
	Definition{Key: "country", Element: "Country", Required: true, Default: unspecified, Vocabulary: Countries},
	Definition{Key: "region", Element: "Region"},
	Definition{Key: "location", Element: "Address"},
	Definition{Key: "contentType", Element: "Genre", Required: true, Default: unspecified, Vocabulary: Genre},
	Definition{Key: "languages", Element: "Language"},
	Definition{Key: "workingLanguages", Element: "Language"},
	Definition{Key: "depositor", Element: "Actor"},
	Definition{Key: "collectionSteward", Element: "Actor"},
	Definition{Key: "accessProtocol", Element: "Availability"},
)

var fileRegistry = NewRegistry("file",
	Definition{Key: "description", Element: "Description", Multilingual: true, Repeatable: true},
	Definition{Key: "recordingEquipment", Element: "Equipment"},
	Definition{Key: "recordingConditions", Element: "RecordingConditions"},
	Definition{Key: "quality", Element: "Quality", Required: true, Default: unspecified, Vocabulary: Quality},
	Definition{Key: "duration", Element: "TimePosition"},
	Definition{Key: "date", Element: "Date", Required: true, Default: unspecified},
)
