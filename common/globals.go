package common

// XucVersion is the current checker version as a string.
const XucVersion string = "0.1.0"

// ProjectFileName is the name of the optional project configuration file.
const ProjectFileName string = "xuc.toml"

// ASTFileExt is the file extension of an AST interchange document.
const ASTFileExt string = ".ast.json"

// XucCacheDir is the default analysis caching directory name.
const XucCacheDir string = ".xuc"

// CacheFileName is the name of the cache database inside the cache directory.
const CacheFileName string = "analysis.db"
