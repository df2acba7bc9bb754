package storage

// schema holds one statement per table; the tables are independent of each other.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    module TEXT NOT NULL,
    source TEXT NOT NULL,
    content TEXT NOT NULL,
    answer TEXT NOT NULL,
    analysis TEXT NOT NULL DEFAULT '',
    question_type TEXT NOT NULL DEFAULT '',
    review_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    entered_on TEXT NOT NULL DEFAULT ''
)`,

	// Idiom names are unique; the form checks first, the constraint decides.
	`CREATE TABLE IF NOT EXISTS idioms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    name TEXT NOT NULL UNIQUE,
    meaning TEXT NOT NULL,
    context TEXT NOT NULL DEFAULT '',
    collocation TEXT NOT NULL DEFAULT '',
    example TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    entered_on TEXT NOT NULL DEFAULT ''
)`,

	`CREATE TABLE IF NOT EXISTS exam_papers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    year INTEGER NOT NULL,
    completion_date TEXT NOT NULL,
    paper_name TEXT NOT NULL,
    politics_total INTEGER NOT NULL DEFAULT 0,
    politics_correct INTEGER NOT NULL DEFAULT 0,
    general_knowledge_total INTEGER NOT NULL DEFAULT 0,
    general_knowledge_correct INTEGER NOT NULL DEFAULT 0,
    logic_total INTEGER NOT NULL DEFAULT 0,
    logic_correct INTEGER NOT NULL DEFAULT 0,
    fragment_total INTEGER NOT NULL DEFAULT 0,
    fragment_correct INTEGER NOT NULL DEFAULT 0,
    quantitative_total INTEGER NOT NULL DEFAULT 0,
    quantitative_correct INTEGER NOT NULL DEFAULT 0,
    graphic_reasoning_total INTEGER NOT NULL DEFAULT 0,
    graphic_reasoning_correct INTEGER NOT NULL DEFAULT 0,
    definition_total INTEGER NOT NULL DEFAULT 0,
    definition_correct INTEGER NOT NULL DEFAULT 0,
    analogy_total INTEGER NOT NULL DEFAULT 0,
    analogy_correct INTEGER NOT NULL DEFAULT 0,
    judgment_total INTEGER NOT NULL DEFAULT 0,
    judgment_correct INTEGER NOT NULL DEFAULT 0,
    data_analysis_total INTEGER NOT NULL DEFAULT 0,
    data_analysis_correct INTEGER NOT NULL DEFAULT 0,
    total_correct INTEGER NOT NULL DEFAULT 0,
    total_questions INTEGER NOT NULL DEFAULT 0,
    score REAL NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS essay_papers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    year INTEGER NOT NULL,
    province TEXT NOT NULL,
    question_type TEXT NOT NULL,
    source TEXT NOT NULL,
    date TEXT NOT NULL,
    content TEXT NOT NULL,
    completion_status TEXT NOT NULL,
    entered_on TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
)`,
}
